package main

import (
	"reflect"
	"testing"

	"github.com/hyperjump/logsentry/internal/cli"
)

func TestBuildQuery(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"single word", []string{"timeout"}, "timeout"},
		{"multi word", []string{"database", "connection", "timeout"}, "database connection timeout"},
		{"empty", nil, ""},
		{"whitespace only", []string{" ", ""}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := buildQuery(tt.args); got != tt.want {
				t.Errorf("buildQuery(%v) = %q, want %q", tt.args, got, tt.want)
			}
		})
	}
}

func TestArgsReorder(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want []string
	}{
		{
			"flags already first",
			[]string{"-zone", "us-east", "timeout"},
			[]string{"-zone", "us-east", "timeout"},
		},
		{
			"query before flags",
			[]string{"connection", "timeout", "-zone", "us-east", "-client", "acme"},
			[]string{"-zone", "us-east", "-client", "acme", "connection", "timeout"},
		},
		{
			"no flags",
			[]string{"connection", "timeout"},
			[]string{"connection", "timeout"},
		},
		{
			"empty",
			nil,
			nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := argsReorder(tt.args); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("argsReorder(%v) = %v, want %v", tt.args, got, tt.want)
			}
		})
	}
}

func TestParseFormat(t *testing.T) {
	if f, err := parseFormat(""); err != nil || f != cli.OutputText {
		t.Errorf("empty: %v, %v", f, err)
	}
	if f, err := parseFormat("text"); err != nil || f != cli.OutputText {
		t.Errorf("text: %v, %v", f, err)
	}
	if f, err := parseFormat("json"); err != nil || f != cli.OutputJSON {
		t.Errorf("json: %v, %v", f, err)
	}
	if _, err := parseFormat("yaml"); err == nil {
		t.Error("yaml: expected error")
	}
}

func TestSplitCSV(t *testing.T) {
	if got := splitCSV("Database, ConnectionPool ,API"); !reflect.DeepEqual(got, []string{"Database", "ConnectionPool", "API"}) {
		t.Errorf("got %v", got)
	}
	if got := splitCSV(""); got != nil {
		t.Errorf("empty gave %v", got)
	}
}
