// Copyright 2026 The Slipway Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"strings"
	"testing"
	"time"

	"github.com/spf13/pflag"
)

func TestBindFlags_BasicTypes(t *testing.T) {
	type params struct {
		Name     string        `flag:"name" desc:"profile name"`
		Raw      bool          `flag:"raw,r" desc:"plain output"`
		Count    int           `flag:"count" desc:"result count"`
		Offset   int64         `flag:"offset" desc:"byte offset"`
		Rate     float64       `flag:"rate" desc:"poll rate"`
		Timeout  time.Duration `flag:"timeout" desc:"request timeout"`
		Tags     []string      `flag:"tags" desc:"machine tags"`
		Untagged string        // no flag tag, skipped
	}

	var p params
	flagSet := pflag.NewFlagSet("test", pflag.ContinueOnError)
	if err := BindFlags(&p, flagSet); err != nil {
		t.Fatalf("BindFlags: %v", err)
	}

	err := flagSet.Parse([]string{
		"--name", "staging",
		"-r",
		"--count", "7",
		"--offset", "4096",
		"--rate", "0.25",
		"--timeout", "45s",
		"--tags", "virtual,pod2",
	})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if p.Name != "staging" {
		t.Errorf("Name = %q, want %q", p.Name, "staging")
	}
	if !p.Raw {
		t.Error("Raw = false, want true (shorthand)")
	}
	if p.Count != 7 || p.Offset != 4096 || p.Rate != 0.25 {
		t.Errorf("numeric fields = %d/%d/%f", p.Count, p.Offset, p.Rate)
	}
	if p.Timeout != 45*time.Second {
		t.Errorf("Timeout = %v, want 45s", p.Timeout)
	}
	if len(p.Tags) != 2 || p.Tags[0] != "virtual" || p.Tags[1] != "pod2" {
		t.Errorf("Tags = %v, want [virtual pod2]", p.Tags)
	}
	if p.Untagged != "" {
		t.Errorf("Untagged = %q, want empty", p.Untagged)
	}
}

func TestBindFlags_Defaults(t *testing.T) {
	type params struct {
		URL     string        `flag:"url" desc:"endpoint" default:"http://localhost:5240/"`
		Timeout time.Duration `flag:"timeout" desc:"timeout" default:"30s"`
		Limit   int           `flag:"limit" desc:"limit" default:"50"`
		Raw     bool          `flag:"raw" desc:"plain output" default:"true"`
		Tags    []string      `flag:"tags" desc:"tags" default:"a,b"`
	}

	var p params
	flagSet := pflag.NewFlagSet("test", pflag.ContinueOnError)
	if err := BindFlags(&p, flagSet); err != nil {
		t.Fatalf("BindFlags: %v", err)
	}
	if err := flagSet.Parse(nil); err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if p.URL != "http://localhost:5240/" {
		t.Errorf("URL default = %q", p.URL)
	}
	if p.Timeout != 30*time.Second {
		t.Errorf("Timeout default = %v", p.Timeout)
	}
	if p.Limit != 50 {
		t.Errorf("Limit default = %d", p.Limit)
	}
	if !p.Raw {
		t.Error("Raw default = false, want true")
	}
	if len(p.Tags) != 2 || p.Tags[0] != "a" {
		t.Errorf("Tags default = %v", p.Tags)
	}
}

func TestBindFlags_EmbeddedJSONOutput(t *testing.T) {
	type params struct {
		JSONOutput
		Name string `flag:"name" desc:"profile name"`
	}

	var p params
	flagSet := pflag.NewFlagSet("test", pflag.ContinueOnError)
	if err := BindFlags(&p, flagSet); err != nil {
		t.Fatalf("BindFlags: %v", err)
	}
	if err := flagSet.Parse([]string{"--json", "--name", "lab"}); err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if !p.OutputJSON {
		t.Error("embedded --json flag not bound")
	}
	if p.Name != "lab" {
		t.Errorf("Name = %q, want %q", p.Name, "lab")
	}
}

func TestBindFlags_Errors(t *testing.T) {
	t.Run("non-pointer input is rejected", func(t *testing.T) {
		var flagSet pflag.FlagSet
		if err := BindFlags(struct{}{}, &flagSet); err == nil {
			t.Fatal("expected error for non-pointer params")
		}
	})

	t.Run("unsupported field type is rejected", func(t *testing.T) {
		type params struct {
			Bad map[string]string `flag:"bad" desc:"unsupported"`
		}
		var p params
		var flagSet pflag.FlagSet
		err := BindFlags(&p, &flagSet)
		if err == nil || !strings.Contains(err.Error(), "unsupported type") {
			t.Fatalf("expected unsupported type error, got %v", err)
		}
	})

	t.Run("bad default value is rejected", func(t *testing.T) {
		type params struct {
			Limit int `flag:"limit" desc:"limit" default:"many"`
		}
		var p params
		var flagSet pflag.FlagSet
		if err := BindFlags(&p, &flagSet); err == nil {
			t.Fatal("expected error for unparseable default")
		}
	})
}
