package postgres

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"

	"github.com/ieee0824/dialectmt/tokens"
)

// pauseMarker is the text of the tokens that mark a pause between turns.
const pauseMarker = "⦿"

const speakerColumn = `t."ID_Inf_id"`

type tokenRow struct {
	ID        int64  `db:"id"`
	Text      string `db:"text"`
	Ortho     string `db:"ortho"`
	SpeakerID int64  `db:"speaker_id"`
	Order     int    `db:"token_reihung"`
}

// TokenRepo implements tokens.Source and tokens.Sink on the token and
// transcript tables.
type TokenRepo struct {
	q Querier
}

// NewTokenRepo creates a repository on q.
func NewTokenRepo(q Querier) *TokenRepo {
	return &TokenRepo{q: q}
}

// TranscriptIDs returns the IDs of the transcripts whose name matches any of
// the LIKE patterns, ascending. No patterns selects every transcript.
func (r *TokenRepo) TranscriptIDs(ctx context.Context, patterns []string) ([]int64, error) {
	query := psql.Select("id").From("transcript").OrderBy("id")
	if len(patterns) > 0 {
		or := make(sq.Or, len(patterns))
		for i, p := range patterns {
			or[i] = sq.Like{"name": p}
		}
		query = query.Where(or)
	}
	return r.ids(ctx, query, "transcript", 0)
}

// SpeakerIDs returns the distinct speakers of a transcript, ascending.
func (r *TokenRepo) SpeakerIDs(ctx context.Context, transcriptID int64) ([]int64, error) {
	query := psql.Select(speakerColumn).Distinct().
		From("token t").
		Where(sq.Eq{"t.transcript_id_id": transcriptID}).
		OrderBy(speakerColumn)
	return r.ids(ctx, query, "transcript", transcriptID)
}

func (r *TokenRepo) ids(ctx context.Context, query sq.SelectBuilder, entity string, id int64) ([]int64, error) {
	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}
	var out []int64
	if err := pgxscan.Select(ctx, r.q, &out, sql, args...); err != nil {
		return nil, mapError(err, entity, id)
	}
	return out, nil
}

// Tokens returns the tokens of one speaker in a transcript in spoken order,
// without pause markers.
func (r *TokenRepo) Tokens(ctx context.Context, transcriptID, speakerID int64) ([]tokens.Token, error) {
	sql, args, err := psql.
		Select("t.id", "t.text", "COALESCE(t.ortho, '') AS ortho", speakerColumn+" AS speaker_id", "t.token_reihung").
		From("token t").
		Where(sq.NotEq{"t.text": pauseMarker}).
		Where(sq.Eq{"t.transcript_id_id": transcriptID}).
		Where(sq.Eq{speakerColumn: speakerID}).
		OrderBy("t.token_reihung ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var rows []tokenRow
	if err := pgxscan.Select(ctx, r.q, &rows, sql, args...); err != nil {
		return nil, mapError(err, "transcript", transcriptID)
	}
	out := make([]tokens.Token, len(rows))
	for i, row := range rows {
		out[i] = tokens.Token(row)
	}
	return out, nil
}

// UpdateOrtho writes every update in one transaction and returns the number
// of rows changed. An update naming a missing token rolls the batch back.
func (r *TokenRepo) UpdateOrtho(ctx context.Context, updates []tokens.Update) (int, error) {
	tx, err := r.q.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin: %w", err)
	}

	n := 0
	for _, u := range updates {
		sql, args, err := psql.Update("token").
			Set("ortho", u.Ortho).
			Set("updated", sq.Expr("CURRENT_TIMESTAMP")).
			Where(sq.Eq{"id": u.TokenID}).
			ToSql()
		if err != nil {
			_ = tx.Rollback(ctx)
			return 0, fmt.Errorf("build update: %w", err)
		}

		tag, err := tx.Exec(ctx, sql, args...)
		if err != nil {
			_ = tx.Rollback(ctx)
			return 0, mapError(err, "token", u.TokenID)
		}
		if tag.RowsAffected() == 0 {
			_ = tx.Rollback(ctx)
			return 0, mapError(pgx.ErrNoRows, "token", u.TokenID)
		}
		n += int(tag.RowsAffected())
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return n, nil
}
