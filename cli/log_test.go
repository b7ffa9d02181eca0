package cli

import (
	"testing"

	"github.com/ardnew/complexpr/log"
)

func TestLogConfigScan(t *testing.T) {
	defer log.SetDefault(log.Default())

	tests := []struct {
		name string
		args []string
		want logConfig
	}{
		{
			name: "separate_values",
			args: []string{"eval", "--log-level", "debug", "--log-format", "json", "1"},
			want: logConfig{Level: "debug", Format: "json"},
		},
		{
			name: "assigned_values",
			args: []string{"--log-level=trace", "--log-time=kitchen"},
			want: logConfig{Level: "trace", Time: "kitchen"},
		},
		{
			name: "booleans",
			args: []string{"--log-caller", "--no-log-pretty"},
			want: logConfig{Caller: true, Pretty: false},
		},
		{
			name: "assigned_booleans",
			args: []string{"--log-pretty=true", "--no-log-caller=false"},
			want: logConfig{Caller: true, Pretty: true},
		},
		{
			name: "value_not_consumed_from_flag",
			args: []string{"--log-level", "--simplify"},
			want: logConfig{},
		},
		{
			name: "unrelated",
			args: []string{"--simplify", "--env=default", "--logging"},
			want: logConfig{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got logConfig

			got.scan(tt.args)

			if got != tt.want {
				t.Errorf("scan(%q) = %+v, want %+v", tt.args, got, tt.want)
			}
		})
	}
}
