package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// PasswordEnv overrides smtp.password_file when set.
const PasswordEnv = "DMCACLI_SMTP_PASSWORD"

type Config struct {
	Profile    string     `yaml:"profile"`
	Output     string     `yaml:"output"`
	SMTP       SMTP       `yaml:"smtp"`
	Addressing Addressing `yaml:"addressing"`
	Safety     Safety     `yaml:"safety"`
}

type SMTP struct {
	Host         string `yaml:"host"`
	Port         int    `yaml:"port"`
	Username     string `yaml:"username"`
	PasswordFile string `yaml:"password_file"`
	Security     string `yaml:"security"`
}

type Addressing struct {
	FromEmail string `yaml:"from_email"`
	FromName  string `yaml:"from_name"`
	ReplyTo   string `yaml:"reply_to"`
	CCEmail   string `yaml:"cc_email"`
	ToEmail   string `yaml:"to_email"`
}

type Safety struct {
	RequireConfirmSendNonTTY bool `yaml:"require_confirm_send_non_tty"`
	AllowForceSend           bool `yaml:"allow_force_send"`
}

func Default() Config {
	return Config{
		Profile: "default",
		Output:  "human",
		SMTP:    SMTP{Port: 465, Security: "ssl"},
		Addressing: Addressing{
			ToEmail: "copyright@github.com",
		},
		Safety: Safety{RequireConfirmSendNonTTY: true, AllowForceSend: true},
	}
}

func Expand(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	return path
}

func DefaultConfigPath() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "dmcacli", "config.yaml")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "dmcacli", "config.yaml")
}

// Load reads the YAML settings file on top of the defaults. A .env file in
// the working directory is loaded first so credential overrides apply.
func Load(path string) (Config, error) {
	_ = godotenv.Load()
	cfg := Default()
	b, err := os.ReadFile(Expand(path))
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return cfg, fmt.Errorf("decode config: %w", err)
	}
	return cfg, nil
}

func Save(path string, cfg Config) error {
	path = Expand(path)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	b, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0o600)
}

// Password resolves the SMTP credential: the environment wins, then the
// configured password file. Empty means unauthenticated SMTP.
func Password(s SMTP) (string, error) {
	if v := strings.TrimSpace(os.Getenv(PasswordEnv)); v != "" {
		return v, nil
	}
	if strings.TrimSpace(s.PasswordFile) == "" {
		return "", nil
	}
	b, err := os.ReadFile(filepath.Clean(Expand(s.PasswordFile)))
	if err != nil {
		return "", fmt.Errorf("read password file: %w", err)
	}
	return strings.TrimSpace(string(b)), nil
}
