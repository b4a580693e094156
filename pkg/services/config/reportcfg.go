package config

import (
	"context"
	"fmt"
	"strings"

	"gopkg.in/ini.v1"
)

const (
	SectionCredentials = "credentials"
	SectionSMTP        = "smtp"
)

// Credentials holds the tracker connection settings of config.ini
type Credentials struct {
	BaseURL    string
	Email      string
	APIKey     string
	ProjectKey string
}

// SMTP holds the mail delivery settings of config.ini
type SMTP struct {
	Server   string
	Port     int
	Debug    int
	Username string
	Password string
	From     string
	ReplyTo  string
	Subject  string
}

type Registry interface {
	Sections(ctx context.Context) ([]string, error)
	Credentials(ctx context.Context) (*Credentials, error)
	SMTP(ctx context.Context) (*SMTP, error)
}

type cfgRegistry struct {
	cfg *ini.File
}

func NewRegistry(path string) (Registry, error) {
	cfg, err := ini.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}
	return &cfgRegistry{cfg: cfg}, nil
}

func (cr *cfgRegistry) Sections(_ context.Context) ([]string, error) {
	var sections []string
	for _, section := range cr.cfg.Sections() {
		if len(section.Keys()) > 0 {
			sections = append(sections, section.Name())
		}
	}
	return sections, nil
}

func (cr *cfgRegistry) Credentials(_ context.Context) (*Credentials, error) {
	section, err := cr.cfg.GetSection(SectionCredentials)
	if err != nil {
		return nil, fmt.Errorf("section %s not found", SectionCredentials)
	}

	values, err := requireKeys(section, "JIRA_BASE_URL", "API_EMAIL", "API_KEY", "PROJECT_KEY")
	if err != nil {
		return nil, err
	}

	return &Credentials{
		BaseURL:    strings.TrimRight(values[0], "/"),
		Email:      values[1],
		APIKey:     values[2],
		ProjectKey: values[3],
	}, nil
}

func (cr *cfgRegistry) SMTP(_ context.Context) (*SMTP, error) {
	section, err := cr.cfg.GetSection(SectionSMTP)
	if err != nil {
		return nil, fmt.Errorf("section %s not found", SectionSMTP)
	}

	values, err := requireKeys(section, "SMTP_SERVER", "SMTP_PORT", "FROM_EMAIL", "REPLY_TO", "SUBJECT")
	if err != nil {
		return nil, err
	}

	port, err := section.Key("SMTP_PORT").Int()
	if err != nil {
		return nil, fmt.Errorf("invalid SMTP_PORT %q: %w", values[1], err)
	}

	return &SMTP{
		Server:   values[0],
		Port:     port,
		Debug:    section.Key("SMTP_DEBUG").MustInt(0),
		Username: section.Key("SMTP_USERNAME").String(),
		Password: section.Key("SMTP_PASSWORD").String(),
		From:     values[2],
		ReplyTo:  values[3],
		Subject:  values[4],
	}, nil
}

func requireKeys(section *ini.Section, keys ...string) ([]string, error) {
	values := make([]string, 0, len(keys))
	var missing []string
	for _, key := range keys {
		value := strings.TrimSpace(section.Key(key).String())
		if value == "" {
			missing = append(missing, key)
		}
		values = append(values, value)
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("section %s is missing %s", section.Name(), strings.Join(missing, ", "))
	}
	return values, nil
}
