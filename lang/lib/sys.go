package lib

// This file defines the host-system bindings of the full environment:
// process environment variables, platform identification, filesystem tests,
// path manipulation and PATH-like list composition.

import (
	"bufio"
	"os"
	"os/user"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/ardnew/mung"

	"github.com/ardnew/complexpr/lang"
)

// Sys returns the host-system module.
func Sys() Module {
	return Module{
		Name: "sys",
		Funcs: map[string]lang.NativeFunc{
			"getenv":          getenv,
			"setenv":          setenv,
			"environ":         environ,
			"cwd":             cwd,
			"file_exists":     fileTest(fileExists),
			"file_is_dir":     fileTest(fileIsDir),
			"file_is_regular": fileTest(fileIsRegular),
			"file_is_symlink": fileTest(fileIsSymlink),
			"path_abs":        pathAbs,
			"path_cat":        pathCat,
			"path_rel":        pathRel,
			"path_prefix":     pathPrefix,
			"path_prefix_if":  pathPrefixIf,
		},
		Vars: map[string]lang.Value{
			"target":   getTarget().list(),
			"platform": getPlatform().list(),
			"hostname": lang.Str(getHostname()),
			"user":     lang.Str(getUser()),
			"shell":    lang.Str(getShell()),
		},
	}
}

func strArgs(args []lang.Value) ([]string, error) {
	s := make([]string, len(args))

	for i, a := range args {
		var err error
		if s[i], err = strArg(a); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// getenv returns the value of a variable, or Void if it is unset.
func getenv(args []lang.Value) (lang.Value, error) {
	if err := lang.BoundArgs(len(args), 1, 1); err != nil {
		return nil, err
	}

	name, err := strArg(args[0])
	if err != nil {
		return nil, err
	}

	if v, ok := os.LookupEnv(name); ok {
		return lang.Str(v), nil
	}

	return lang.Void{}, nil
}

// setenv sets a variable from the display form of a value, or unsets it when
// the value is Void.
func setenv(args []lang.Value) (lang.Value, error) {
	if err := lang.BoundArgs(len(args), 2, 2); err != nil {
		return nil, err
	}

	name, err := strArg(args[0])
	if err != nil {
		return nil, err
	}

	if isVoid(args[1]) {
		err = os.Unsetenv(name)
	} else {
		err = os.Setenv(name, args[1].String())
	}

	if err != nil {
		return nil, lang.IOError(err)
	}

	return lang.Void{}, nil
}

// environ returns the process environment as a list of (name, value) pairs,
// the same shape $ctx uses.
func environ(args []lang.Value) (lang.Value, error) {
	if err := lang.BoundArgs(len(args), 0, 0); err != nil {
		return nil, err
	}

	env := lang.NewEnv()
	for _, entry := range os.Environ() {
		if key, value, ok := strings.Cut(entry, "="); ok {
			env.Set(key, lang.Str(value))
		}
	}

	return env.List(), nil
}

// target contains string identifiers for a target operating system and
// instruction set architecture.
type target struct {
	OS   string
	Arch string
}

func (t target) list() lang.List { return lang.List{lang.Str(t.OS), lang.Str(t.Arch)} }

// getTarget returns the host target using GNU GCC/LLVM naming conventions.
func getTarget() target {
	t := getPlatform()

	switch t.Arch {
	case "386":
		t.Arch = "i386"
	case "amd64":
		t.Arch = "x86_64"
	case "arm":
		if arm, ok := os.LookupEnv("GOARM"); ok {
			arm, _, _ = strings.Cut(arm, ",")
			switch arm = strings.TrimSpace(arm); arm {
			case "5", "6", "7":
				t.Arch = "armv" + arm
			}
		}
	case "arm64":
		if t.OS != "darwin" {
			t.Arch = "aarch64"
		}
	case "mipsle":
		t.Arch = "mipsel"
	}

	return t
}

// getPlatform returns the host target using Go conventions.
func getPlatform() target {
	lookup := func(fallback string, keys ...string) string {
		for _, k := range keys {
			if v, ok := os.LookupEnv(k); ok {
				return v
			}
		}

		return fallback
	}

	return target{
		OS:   lookup(runtime.GOOS, "GOHOSTOS", "GOOS"),
		Arch: lookup(runtime.GOARCH, "GOHOSTARCH", "GOARCH"),
	}
}

func getHostname() string {
	hostname, err := os.Hostname()
	if err != nil {
		return ""
	}

	return hostname
}

func getUser() string {
	u, err := user.Current()
	if err != nil {
		return ""
	}

	return u.Username
}

// getShell returns $SHELL, or the login shell of the current user from
// /etc/passwd.
func getShell() string {
	if shell, ok := os.LookupEnv("SHELL"); ok {
		return shell
	}

	name := getUser()
	if name == "" {
		return ""
	}

	f, err := os.Open("/etc/passwd")
	if err != nil {
		return ""
	}

	defer f.Close()

	s := bufio.NewScanner(f)
	for s.Scan() {
		e := strings.Split(s.Text(), ":")
		if len(e) > 6 && e[0] == name {
			return e[6]
		}
	}

	return ""
}

func cwd(args []lang.Value) (lang.Value, error) {
	if err := lang.BoundArgs(len(args), 0, 0); err != nil {
		return nil, err
	}

	dir, err := os.Getwd()
	if err != nil {
		return lang.Str(absPath(".")), nil
	}

	return lang.Str(dir), nil
}

func fileTest(f func(string) bool) lang.NativeFunc {
	return func(args []lang.Value) (lang.Value, error) {
		if err := lang.BoundArgs(len(args), 1, 1); err != nil {
			return nil, err
		}

		path, err := strArg(args[0])
		if err != nil {
			return nil, err
		}

		return lang.Bool(f(path)), nil
	}
}

func fileExists(path string) bool {
	_, err := os.Stat(path)

	return !os.IsNotExist(err)
}

func fileIsDir(path string) bool {
	info, err := os.Stat(path)

	return err == nil && info.IsDir()
}

func fileIsRegular(path string) bool {
	info, err := os.Stat(path)

	return err == nil && info.Mode().IsRegular()
}

func fileIsSymlink(path string) bool {
	info, err := os.Lstat(path)

	return err == nil && info.Mode()&os.ModeSymlink != 0
}

func absPath(path string) string {
	p, err := filepath.Abs(path)
	if err != nil {
		return path
	}

	return p
}

func pathAbs(args []lang.Value) (lang.Value, error) {
	if err := lang.BoundArgs(len(args), 1, 1); err != nil {
		return nil, err
	}

	path, err := strArg(args[0])
	if err != nil {
		return nil, err
	}

	return lang.Str(absPath(path)), nil
}

func pathCat(args []lang.Value) (lang.Value, error) {
	elem, err := strArgs(args)
	if err != nil {
		return nil, err
	}

	return lang.Str(filepath.Join(elem...)), nil
}

// pathRel returns the second path relative to the first, or the two joined
// if no relative path exists.
func pathRel(args []lang.Value) (lang.Value, error) {
	if err := lang.BoundArgs(len(args), 2, 2); err != nil {
		return nil, err
	}

	p, err := strArgs(args)
	if err != nil {
		return nil, err
	}

	rel, err := filepath.Rel(absPath(p[0]), absPath(p[1]))
	if err != nil {
		return lang.Str(filepath.Join(p...)), nil
	}

	return lang.Str(rel), nil
}

// pathPrefix returns the PATH-like list of its first argument with the
// remaining items moved or added to the front, without duplicates.
func pathPrefix(args []lang.Value) (lang.Value, error) {
	if err := lang.MinArgs(len(args), 1); err != nil {
		return nil, err
	}

	items, err := strArgs(args)
	if err != nil {
		return nil, err
	}

	return lang.Str(mung.Make(
		mung.WithSubjectItems(items[0]),
		mung.WithDelim(string(os.PathListSeparator)),
		mung.WithPrefixItems(items[1:]...),
	).String()), nil
}

// pathPrefixIf is pathPrefix keeping only the items for which the function
// in second position returns true.
func pathPrefixIf(args []lang.Value) (lang.Value, error) {
	if err := lang.MinArgs(len(args), 2); err != nil {
		return nil, err
	}

	fn, err := callableArg(args[1])
	if err != nil {
		return nil, err
	}

	items, err := strArgs(append([]lang.Value{args[0]}, args[2:]...))
	if err != nil {
		return nil, err
	}

	var callErr error

	keep := func(item string) bool {
		if callErr != nil {
			return false
		}

		ok, err := call1(fn, lang.Str(item))
		if err != nil {
			callErr = err

			return false
		}

		return lang.Truthy(ok)
	}

	res := mung.Make(
		mung.WithSubjectItems(items[0]),
		mung.WithDelim(string(os.PathListSeparator)),
		mung.WithPrefixItems(items[1:]...),
		mung.WithFilter(keep),
	).String()

	if callErr != nil {
		return nil, callErr
	}

	return lang.Str(res), nil
}
