package postgres

import (
	"strings"
	"testing"
)

func TestConfig_isValid(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		want bool
	}{
		{
			name: "valid config",
			cfg: Config{
				User:     "user",
				Password: "password",
				Host:     "localhost",
				Port:     "5432",
				DBName:   "test",
			},
			want: true,
		},
		{
			name: "empty config",
			cfg:  Config{},
			want: false,
		},
		{
			name: "config with empty password",
			cfg: Config{
				User:   "user",
				Host:   "localhost",
				Port:   "5432",
				DBName: "test",
			},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.cfg.IsValid(); got != tt.want {
				t.Errorf("Config.IsValid() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestConfigFromEnv(t *testing.T) {
	t.Setenv("POSTGRES_USER", "")
	t.Setenv("POSTGRES_PASSWORD", "secret")
	t.Setenv("POSTGRES_HOST", "db")
	t.Setenv("POSTGRES_PORT", "")
	t.Setenv("POSTGRES_DB", "")

	conf := ConfigFromEnv()
	want := "postgres://postgres:secret@db:5432/scraper"
	if got := conf.ConString(); got != want {
		t.Errorf("want connection string %q, got %q", want, got)
	}
}

func TestConfig_StringMasksPassword(t *testing.T) {
	conf := Config{User: "u", Password: "secret", Host: "h", Port: "1", DBName: "d"}

	got := conf.String()
	if strings.Contains(got, "secret") {
		t.Errorf("want password masked, got %s", got)
	}
	if !strings.Contains(got, "******") {
		t.Errorf("want masked password in %s", got)
	}
}
