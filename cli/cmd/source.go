package cmd

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"syscall"

	"github.com/ardnew/complexpr/lang"
	"github.com/ardnew/complexpr/log"
)

// SourceFiles is the ordered, de-duplicated list of program files given with
// --source. Standard input, named "-", is always evaluated last.
type SourceFiles struct {
	paths []string
	stdin bool
}

// fileKey uniquely identifies a file by its device and inode numbers.
// This handles deduplication across symlinks, absolute/relative paths, and
// special device files.
type fileKey struct {
	dev uint64
	ino uint64
}

// stdinSource is the special source indicator for reading from stdin.
const stdinSource = "-"

type sourceFilesKey struct{}

// WithSourceFiles returns a new context.Context containing the [SourceFiles]
// built from sources.
//
// Paths are de-duplicated by resolving symlinks and comparing device/inode
// pairs. Paths that cannot be resolved are logged and skipped.
func WithSourceFiles(ctx context.Context, sources []string) context.Context {
	return context.WithValue(ctx, sourceFilesKey{}, buildSourceFiles(ctx, sources))
}

func sourceFilesFrom(ctx context.Context) *SourceFiles {
	s, _ := ctx.Value(sourceFilesKey{}).(*SourceFiles)

	return s
}

func buildSourceFiles(ctx context.Context, sources []string) *SourceFiles {
	if len(sources) == 0 {
		return nil
	}

	var srcs SourceFiles

	seen := make(map[fileKey]struct{})

	stdinInfo, _ := os.Stdin.Stat()
	stdinKey, _ := makeFileKey(stdinInfo)

	for _, src := range sources {
		if src == stdinSource {
			seen[stdinKey] = struct{}{}

			continue
		}

		path, ok := uniquePath(src, seen)
		if !ok {
			log.DebugContext(ctx, "skip source", slog.String("path", src))

			continue
		}

		srcs.paths = append(srcs.paths, path)
	}

	// Stdin may have been included via "-" or as a named file.
	// Both of which will be represented by stdinKey in seen.
	_, srcs.stdin = seen[stdinKey]

	if len(srcs.paths) == 0 && !srcs.stdin {
		return nil
	}

	return &srcs
}

// uniquePath returns the resolved path of a regular file not yet in seen.
func uniquePath(path string, seen map[fileKey]struct{}) (string, bool) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", false
	}

	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return "", false
	}

	info, err := os.Stat(resolved)
	if err != nil || info.IsDir() {
		return "", false
	}

	key, ok := makeFileKey(info)
	if !ok {
		return "", false
	}

	if _, exists := seen[key]; exists {
		return "", false
	}

	seen[key] = struct{}{}

	return resolved, true
}

// makeFileKey creates a fileKey from os.FileInfo.
// Returns false if the underlying Sys() data is not of type *syscall.Stat_t.
func makeFileKey(info os.FileInfo) (key fileKey, ok bool) {
	if info == nil {
		return key, false
	}

	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return key, false
	}

	return fileKey{dev: uint64(stat.Dev), ino: stat.Ino}, true //nolint:unconvert
}

// IsZero reports whether there are no sources.
func (s *SourceFiles) IsZero() bool { return s == nil || (len(s.paths) == 0 && !s.stdin) }

// Paths returns the resolved file paths in evaluation order, excluding
// standard input.
func (s *SourceFiles) Paths() []string {
	if s == nil {
		return nil
	}

	return s.paths
}

// HasStdin reports whether standard input is one of the sources.
func (s *SourceFiles) HasStdin() bool { return s != nil && s.stdin }

// Load evaluates every source file in env, then standard input if it was
// named. The first failure stops loading.
func (s *SourceFiles) Load(ctx context.Context, sess Session, env *lang.Env) error {
	for _, path := range s.Paths() {
		if err := LoadFile(ctx, sess, env, path); err != nil {
			return err
		}
	}

	if s.HasStdin() {
		return loadReader(ctx, sess, env, stdinSource, sess.Stdin)
	}

	return nil
}

// LoadFile evaluates the program in the file at path in env.
func LoadFile(ctx context.Context, sess Session, env *lang.Env, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return ErrReadSource.With(slog.String("file", path)).Wrap(err)
	}
	defer f.Close()

	return loadReader(ctx, sess, env, path, f)
}

func loadReader(
	ctx context.Context,
	sess Session,
	env *lang.Env,
	name string,
	r io.Reader,
) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return ErrReadSource.With(slog.String("file", name)).Wrap(err)
	}

	if _, err := lang.Eval(ctx, string(data), env, sess.Options()...); err != nil {
		return ErrEvalSource.With(slog.String("file", name)).Wrap(err)
	}

	log.DebugContext(ctx, "loaded source",
		slog.String("file", name),
		slog.Int("bytes", len(data)))

	return nil
}
