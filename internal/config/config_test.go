package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultConfigValues(t *testing.T) {
	cfg := Default()
	if cfg.Profile != "default" {
		t.Fatalf("unexpected profile: %q", cfg.Profile)
	}
	if cfg.Output != "human" {
		t.Fatalf("unexpected output: %q", cfg.Output)
	}
	if cfg.SMTP.Port != 465 || cfg.SMTP.Security != "ssl" {
		t.Fatalf("unexpected smtp defaults: %+v", cfg.SMTP)
	}
	if cfg.Addressing.ToEmail != "copyright@github.com" {
		t.Fatalf("unexpected addressing defaults: %+v", cfg.Addressing)
	}
	if !cfg.Safety.RequireConfirmSendNonTTY || !cfg.Safety.AllowForceSend {
		t.Fatalf("unexpected safety defaults: %+v", cfg.Safety)
	}
}

func TestExpandHomePath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Fatalf("user home dir: %v", err)
	}
	got := Expand("~/test/dmcacli")
	want := filepath.Join(home, "test", "dmcacli")
	if got != want {
		t.Fatalf("unexpected expanded path: got=%q want=%q", got, want)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	tmp := t.TempDir()
	path := filepath.Join(tmp, "config.yaml")
	cfg := Config{
		Profile: "agent",
		Output:  "json",
		SMTP: SMTP{
			Host:         "mail.example.com",
			Port:         587,
			Username:     "admin@example.com",
			PasswordFile: "~/secret.pass",
			Security:     "starttls",
		},
		Addressing: Addressing{
			FromEmail: "admin@example.com",
			FromName:  "Mr. Admin",
			ReplyTo:   "admin@example.com",
			CCEmail:   "legal@example.com",
			ToEmail:   "copyright@github.com",
		},
		Safety: Safety{
			RequireConfirmSendNonTTY: false,
			AllowForceSend:           true,
		},
	}
	if err := Save(path, cfg); err != nil {
		t.Fatalf("save: %v", err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded.Profile != cfg.Profile || loaded.Output != cfg.Output {
		t.Fatalf("unexpected defaults section: %+v", loaded)
	}
	if loaded.SMTP != cfg.SMTP {
		t.Fatalf("unexpected smtp section: got=%+v want=%+v", loaded.SMTP, cfg.SMTP)
	}
	if loaded.Addressing != cfg.Addressing {
		t.Fatalf("unexpected addressing section: got=%+v want=%+v", loaded.Addressing, cfg.Addressing)
	}
	if loaded.Safety != cfg.Safety {
		t.Fatalf("unexpected safety section: got=%+v want=%+v", loaded.Safety, cfg.Safety)
	}
}

func TestLoadOverlaysDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	partial := "smtp:\n  host: mail.example.com\n"
	if err := os.WriteFile(path, []byte(partial), 0o600); err != nil {
		t.Fatal(err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded.SMTP.Host != "mail.example.com" {
		t.Fatalf("explicit value lost: %+v", loaded.SMTP)
	}
	if loaded.SMTP.Port != 465 || loaded.Addressing.ToEmail != "copyright@github.com" {
		t.Fatalf("defaults not preserved: %+v", loaded)
	}
}

func TestDefaultPathRespectsXDG(t *testing.T) {
	tmp := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tmp, "config"))

	cfgPath := DefaultConfigPath()
	if !strings.HasPrefix(cfgPath, filepath.Join(tmp, "config")) {
		t.Fatalf("unexpected config path: %s", cfgPath)
	}
}

func TestPasswordPrefersEnvironment(t *testing.T) {
	pass := filepath.Join(t.TempDir(), "smtp.pass")
	if err := os.WriteFile(pass, []byte("file-secret\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv(PasswordEnv, "env-secret")
	got, err := Password(SMTP{PasswordFile: pass})
	if err != nil {
		t.Fatalf("password: %v", err)
	}
	if got != "env-secret" {
		t.Fatalf("unexpected password: %q", got)
	}
}

func TestPasswordReadsFile(t *testing.T) {
	pass := filepath.Join(t.TempDir(), "smtp.pass")
	if err := os.WriteFile(pass, []byte("file-secret\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv(PasswordEnv, "")
	got, err := Password(SMTP{PasswordFile: pass})
	if err != nil {
		t.Fatalf("password: %v", err)
	}
	if got != "file-secret" {
		t.Fatalf("unexpected password: %q", got)
	}
}

func TestPasswordMissingFileFails(t *testing.T) {
	t.Setenv(PasswordEnv, "")
	if _, err := Password(SMTP{PasswordFile: filepath.Join(t.TempDir(), "absent.pass")}); err == nil {
		t.Fatal("expected error for unreadable password file")
	}
}
