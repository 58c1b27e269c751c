// Package config loads the dialectmt configuration from a YAML file and the
// environment.
package config

import "time"

// ViennaNear is the default set of transcript name patterns: recordings from
// the towns around Vienna.
var ViennaNear = []string{"%_WIER%", "%_WIENW%", "%_GERAS%", "%_BADEN%", "%_MÖDL%"}

// Config is the root configuration.
type Config struct {
	Corpus   CorpusConfig   `yaml:"corpus"`
	Decoder  DecoderConfig  `yaml:"decoder"`
	Database DatabaseConfig `yaml:"database"`
	Log      LogConfig      `yaml:"log"`
}

// CorpusConfig locates the training data.
type CorpusConfig struct {
	Path      string `yaml:"path"       env:"CORPUS_PATH"       env-default:"data/wien.tsv"`
	RulesPath string `yaml:"rules_path" env:"CORPUS_RULES_PATH"`
	TestPath  string `yaml:"test_path"  env:"CORPUS_TEST_PATH"`
}

// DecoderConfig holds the search settings and the optional ARPA model.
type DecoderConfig struct {
	StackSize          int     `yaml:"stack_size"            env:"DECODER_STACK_SIZE"            env-default:"100"`
	BeamWidth          float64 `yaml:"beam_width"            env:"DECODER_BEAM_WIDTH"            env-default:"100"`
	LMWeight           float64 `yaml:"lm_weight"             env:"DECODER_LM_WEIGHT"             env-default:"1"`
	WordPenalty        float64 `yaml:"word_penalty"          env:"DECODER_WORD_PENALTY"          env-default:"0"`
	MaxPhraseLength    int     `yaml:"max_phrase_length"     env:"DECODER_MAX_PHRASE_LENGTH"     env-default:"3"`
	PassThroughLogProb float64 `yaml:"pass_through_log_prob" env:"DECODER_PASS_THROUGH_LOG_PROB" env-default:"-20"`
	ARPAPath           string  `yaml:"arpa_path"             env:"DECODER_ARPA_PATH"`
	// OOVLog10Prob is the log10 probability an ARPA model assigns to unknown
	// words. Zero leaves unknown words at the model floor.
	OOVLog10Prob float64 `yaml:"oov_log10_prob" env:"DECODER_OOV_LOG10_PROB" env-default:"0"`
}

// DatabaseConfig holds PostgreSQL connection settings for the annotation
// pipeline.
type DatabaseConfig struct {
	DSN                string        `yaml:"dsn"                 env:"DATABASE_DSN"`
	MaxConns           int32         `yaml:"max_conns"           env:"DATABASE_MAX_CONNS"           env-default:"8"`
	MinConns           int32         `yaml:"min_conns"           env:"DATABASE_MIN_CONNS"           env-default:"1"`
	MaxConnLifetime    time.Duration `yaml:"max_conn_lifetime"   env:"DATABASE_MAX_CONN_LIFETIME"   env-default:"1h"`
	MaxConnIdleTime    time.Duration `yaml:"max_conn_idle_time"  env:"DATABASE_MAX_CONN_IDLE_TIME"  env-default:"30m"`
	TranscriptPatterns []string      `yaml:"transcript_patterns" env:"DATABASE_TRANSCRIPT_PATTERNS" env-separator:","`
	FetchConcurrency   int           `yaml:"fetch_concurrency"   env:"DATABASE_FETCH_CONCURRENCY"   env-default:"4"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"text"`
}
