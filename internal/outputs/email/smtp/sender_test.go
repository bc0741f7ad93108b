package smtp

import "testing"

func TestResolveTLSModePortDefaults(t *testing.T) {
	mode, err := resolveTLSMode("", 465)
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if mode != TLSModeImplicit {
		t.Errorf("expected implicit on 465, got %s", mode)
	}

	mode, err = resolveTLSMode("auto", 587)
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if mode != TLSModeStartTLS {
		t.Errorf("expected starttls on 587, got %s", mode)
	}
}

func TestParseTLSModeAliases(t *testing.T) {
	cases := map[string]TLSMode{
		"off":       TLSModeDisabled,
		"NONE":      TLSModeDisabled,
		"start_tls": TLSModeStartTLS,
		"smtptls":   TLSModeImplicit,
		" implicit": TLSModeImplicit,
	}
	for raw, want := range cases {
		got, err := parseTLSMode(raw)
		if err != nil {
			t.Fatalf("parse %q failed: %v", raw, err)
		}
		if got != want {
			t.Errorf("parse %q = %s, want %s", raw, got, want)
		}
	}
}

func TestParseTLSModeRejectsUnknown(t *testing.T) {
	if _, err := parseTLSMode("mystery"); err == nil {
		t.Fatal("expected error for unknown mode")
	}
}

func TestValidateConfig(t *testing.T) {
	if err := ValidateConfig("", 587); err == nil {
		t.Error("expected error for empty host")
	}
	if err := ValidateConfig("smtp.example.com", 0); err == nil {
		t.Error("expected error for zero port")
	}
	if err := ValidateConfig("smtp.example.com", 587); err != nil {
		t.Errorf("expected valid config, got: %v", err)
	}
}
