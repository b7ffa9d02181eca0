package cli

import (
	"reflect"
	"strings"
	"testing"

	"github.com/alecthomas/kong"
)

func TestResolve(t *testing.T) {
	src := `
		log_level = "debug";
		pretty = false;
		depth = 2 * 3;
		scale = 1.5;
		source = ("a.cx", "b.cx");
		helper = x:(x + 1)
	`

	r, err := resolve(t.Context())(strings.NewReader(src))
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		flag string
		want any
	}{
		{"log-level", "debug"},
		{"log_level", "debug"},
		{"pretty", false},
		{"depth", "6"},
		{"scale", "1.5"},
		{"source", []any{"a.cx", "b.cx"}},
		{"helper", nil},
		{"missing", nil},
	}

	for _, tt := range tests {
		t.Run(tt.flag, func(t *testing.T) {
			got, err := r.Resolve(nil, nil, &kong.Flag{Value: &kong.Value{Name: tt.flag}})
			if err != nil {
				t.Fatal(err)
			}

			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Resolve(%q) = %#v, want %#v", tt.flag, got, tt.want)
			}
		})
	}
}

func TestResolveInvalidProgram(t *testing.T) {
	r, err := resolve(t.Context())(strings.NewReader(`log_level = ("debug"`))
	if err != nil {
		t.Fatalf("resolve() error: %v", err)
	}

	got, err := r.Resolve(nil, nil, &kong.Flag{Value: &kong.Value{Name: "log-level"}})
	if err != nil || got != nil {
		t.Errorf("Resolve() = %v, %v; want nil, nil", got, err)
	}
}

func TestResolveMismatchedBindings(t *testing.T) {
	var cli struct {
		LogLevel string `default:"info"`
		Depth    int    `default:"1"`
		Helper   string `default:"none"`
		Source   []string
		Verbose  bool
	}

	src := `depth = true; helper = x:x; source = "y.cx"; verbose = true; log_level = `

	r, err := resolve(t.Context())(strings.NewReader(src))
	if err != nil {
		t.Fatal(err)
	}

	parser, err := kong.New(&cli, kong.Resolvers(r))
	if err != nil {
		t.Fatal(err)
	}

	if _, err := parser.Parse(nil); err != nil {
		t.Fatalf("Parse() error: %v", err)
	}

	if cli.LogLevel != "info" || cli.Depth != 1 || cli.Helper != "none" || !cli.Verbose ||
		!reflect.DeepEqual(cli.Source, []string{"y.cx"}) {
		t.Errorf("parsed %+v", cli)
	}
}

func TestResolveFlags(t *testing.T) {
	var cli struct {
		LogLevel string   `default:"info"`
		Depth    int      `default:"1"`
		Source   []string
		Verbose  bool
	}

	src := `log_level = "debug"; depth = 4; source = ("x.cx",); verbose = true`

	r, err := resolve(t.Context())(strings.NewReader(src))
	if err != nil {
		t.Fatal(err)
	}

	parser, err := kong.New(&cli, kong.Resolvers(r))
	if err != nil {
		t.Fatal(err)
	}

	if _, err := parser.Parse([]string{"--depth=5"}); err != nil {
		t.Fatal(err)
	}

	if cli.LogLevel != "debug" || cli.Depth != 5 || !cli.Verbose ||
		!reflect.DeepEqual(cli.Source, []string{"x.cx"}) {
		t.Errorf("parsed %+v", cli)
	}
}
