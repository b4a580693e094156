package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const EnvPrefix = "EPIC_REPORT"

// Settings are the runtime tunables, read from an optional file and EPIC_REPORT_* variables
type Settings struct {
	Concurrency       int           `mapstructure:"concurrency"`
	RequestsPerMinute int           `mapstructure:"requests_per_minute"`
	Burst             int           `mapstructure:"burst"`
	HTTPTimeout       time.Duration `mapstructure:"http_timeout"`
	RetryMax          int           `mapstructure:"retry_max"`
	PageSize          int           `mapstructure:"page_size"`
	OutputDir         string        `mapstructure:"output_dir"`
	FilePrefix        string        `mapstructure:"file_prefix"`
	HistoryDB         string        `mapstructure:"history_db"`
	EpicJQL           string        `mapstructure:"epic_jql"`
	TaskJQL           string        `mapstructure:"task_jql"`
	SubTaskJQL        string        `mapstructure:"subtask_jql"`
	S3                S3Settings    `mapstructure:"s3"`
}

type S3Settings struct {
	Bucket string `mapstructure:"bucket"`
	Prefix string `mapstructure:"prefix"`
	Region string `mapstructure:"region"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("concurrency", 1)
	v.SetDefault("requests_per_minute", 300)
	v.SetDefault("burst", 5)
	v.SetDefault("http_timeout", 30*time.Second)
	v.SetDefault("retry_max", 3)
	v.SetDefault("page_size", 100)
	v.SetDefault("output_dir", ".")
	v.SetDefault("file_prefix", "jira_report")
	v.SetDefault("history_db", "")
	v.SetDefault("epic_jql", "issuetype = Epic AND project = {project} ORDER BY key ASC")
	v.SetDefault("task_jql", `"Epic Link" = {key}`)
	v.SetDefault("subtask_jql", "parent = {key}")
	v.SetDefault("s3.bucket", "")
	v.SetDefault("s3.prefix", "")
	v.SetDefault("s3.region", "")
}

// LoadSettings reads path when given; environment variables override file values.
func LoadSettings(path string) (*Settings, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read settings file: %w", err)
		}
	}

	var settings Settings
	if err := v.Unmarshal(&settings); err != nil {
		return nil, fmt.Errorf("failed to parse settings: %w", err)
	}
	if settings.Concurrency < 1 {
		return nil, fmt.Errorf("concurrency must be at least 1, got %d", settings.Concurrency)
	}
	if settings.PageSize < 1 {
		return nil, fmt.Errorf("page_size must be at least 1, got %d", settings.PageSize)
	}
	return &settings, nil
}

// ExpandJQL substitutes {project} and {key} in a query template.
func ExpandJQL(template, project, key string) string {
	return strings.NewReplacer("{project}", project, "{key}", key).Replace(template)
}
