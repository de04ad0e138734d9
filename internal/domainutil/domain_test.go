package domainutil

import "testing"

func TestNormalize(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{
			name:  "lowercases mixed case",
			input: "Love.Example.COM",
			want:  "love.example.com",
		},
		{
			name:  "trims whitespace",
			input: "  example.com  ",
			want:  "example.com",
		},
		{
			name:  "strips trailing dot",
			input: "example.com.",
			want:  "example.com",
		},
		{
			name:  "strips port",
			input: "example.com:443",
			want:  "example.com",
		},
		{
			name:  "strips scheme and path",
			input: "https://example.com/guestbook",
			want:  "example.com",
		},
		{
			name:    "rejects empty",
			input:   "",
			wantErr: true,
		},
		{
			name:    "rejects IPv4 literal",
			input:   "192.168.1.10",
			wantErr: true,
		},
		{
			name:    "rejects IPv6 literal",
			input:   "[::1]",
			wantErr: true,
		},
		{
			name:    "rejects invalid characters",
			input:   "exa mple.com",
			wantErr: true,
		},
		{
			name:    "rejects wildcard",
			input:   "*.example.com",
			wantErr: true,
		},
		{
			name:    "rejects single label",
			input:   "localhost",
			wantErr: true,
		},
		{
			name:    "rejects leading dash",
			input:   "-bad.example.com",
			wantErr: true,
		},
		{
			name:    "rejects empty label",
			input:   "bad..example.com",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Normalize(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("Normalize(%q) = %q; want error", tt.input, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("Normalize(%q) failed: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("Normalize(%q) = %q; want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{"Love.Example.com", "example.com:8080", "  a.b.example.co.uk. "}
	for _, in := range inputs {
		once, err := Normalize(in)
		if err != nil {
			t.Fatalf("Normalize(%q) failed: %v", in, err)
		}
		twice, err := Normalize(once)
		if err != nil {
			t.Fatalf("Normalize(Normalize(%q)) failed: %v", in, err)
		}
		if once != twice {
			t.Errorf("Normalize not idempotent for %q: %q != %q", in, once, twice)
		}
	}
}

func TestIsApex(t *testing.T) {
	tests := []struct {
		hostname string
		want     bool
	}{
		{"example.com", true},
		{"love.example.com", false},
		{"example.co.uk", true},
		{"shop.example.co.uk", false},
		{"a.b.example.com", false},
	}

	for _, tt := range tests {
		got, err := IsApex(tt.hostname)
		if err != nil {
			t.Fatalf("IsApex(%q) failed: %v", tt.hostname, err)
		}
		if got != tt.want {
			t.Errorf("IsApex(%q) = %v; want %v", tt.hostname, got, tt.want)
		}
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name         string
		input        string
		wantHostname string
		wantApex     bool
		wantErr      bool
	}{
		{
			name:         "subdomain",
			input:        "Love.Example.com",
			wantHostname: "love.example.com",
			wantApex:     false,
		},
		{
			name:         "apex",
			input:        "example.com",
			wantHostname: "example.com",
			wantApex:     true,
		},
		{
			name:    "platform domain itself is reserved",
			input:   "guestwall.io",
			wantErr: true,
		},
		{
			name:    "platform subdomain is reserved",
			input:   "mine.guestwall.io",
			wantErr: true,
		},
		{
			name:    "bare public suffix",
			input:   "co.uk",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := Validate(tt.input, "guestwall.io")
			if tt.wantErr {
				if err == nil {
					t.Fatalf("Validate(%q) succeeded; want error", tt.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("Validate(%q) failed: %v", tt.input, err)
			}
			if v.Hostname != tt.wantHostname {
				t.Errorf("hostname = %q; want %q", v.Hostname, tt.wantHostname)
			}
			if v.IsApex != tt.wantApex {
				t.Errorf("isApex = %v; want %v", v.IsApex, tt.wantApex)
			}
		})
	}
}
