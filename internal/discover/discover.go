// Package discover finds dumpling report inputs under analysis directories
// using the registered search patterns.
package discover

import (
	"bufio"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/gobwas/glob"
	"go.uber.org/zap"

	"github.com/odcambc/dumpling-qc/internal/config"
)

// File is one discovered input.
type File struct {
	Sample  string
	Path    string
	Pattern string
}

// SampleName returns the sample the file belongs to.
func (f File) SampleName() string {
	return f.Sample
}

// FilePath returns the path of the file on disk.
func (f File) FilePath() string {
	return f.Path
}

// Open opens the file for reading.
func (f File) Open() (io.ReadCloser, error) {
	return os.Open(f.Path)
}

// Results maps a search pattern key to the files it matched, sorted by
// sample name.
type Results map[string][]File

type matcher struct {
	key      string
	fn       glob.Glob
	ext      string
	contents *regexp.Regexp
	numLines int
}

// Finder walks directories and classifies files by search pattern.
type Finder struct {
	matchers    []matcher
	ignoreFiles map[string]bool
	ignoreDirs  map[string]bool
	logger      *zap.Logger
}

// NewFinder compiles the search patterns. Files listed in ignoreFiles are
// never matched.
func NewFinder(patterns map[string]config.SearchPattern, ignoreFiles []string) (*Finder, error) {
	f := &Finder{
		ignoreFiles: make(map[string]bool, len(ignoreFiles)),
		ignoreDirs:  make(map[string]bool),
		logger:      zap.NewNop(),
	}
	for _, p := range ignoreFiles {
		f.ignoreFiles[absPath(p)] = true
	}

	keys := make([]string, 0, len(patterns))
	for k := range patterns {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		sp := patterns[key]
		if sp.Fn == "" {
			return nil, fmt.Errorf("search pattern %s: fn is required", key)
		}
		g, err := glob.Compile(sp.Fn)
		if err != nil {
			return nil, fmt.Errorf("search pattern %s: compile fn %q: %w", key, sp.Fn, err)
		}
		m := matcher{key: key, fn: g, ext: literalSuffix(sp.Fn), numLines: sp.NumLines}
		if sp.ContentsRe != "" {
			re, err := regexp.Compile(sp.ContentsRe)
			if err != nil {
				return nil, fmt.Errorf("search pattern %s: compile contents_re: %w", key, err)
			}
			m.contents = re
		}
		f.matchers = append(f.matchers, m)
	}
	return f, nil
}

// SetLogger sets the logger for debug and warning messages.
func (f *Finder) SetLogger(l *zap.Logger) {
	f.logger = l
}

// IgnoreDir excludes a directory and everything below it from the search.
func (f *Finder) IgnoreDir(path string) {
	f.ignoreDirs[absPath(path)] = true
}

// Find walks each root and returns the matching files per pattern key.
// A root may also be a single file.
func (f *Finder) Find(roots ...string) (Results, error) {
	found := make(map[string]map[string]File)

	for _, root := range roots {
		err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if path != root && (strings.HasPrefix(d.Name(), ".") || f.ignoreDirs[absPath(path)]) {
					return filepath.SkipDir
				}
				return nil
			}
			if !d.Type().IsRegular() || f.ignoreFiles[absPath(path)] {
				return nil
			}
			return f.classify(path, found)
		})
		if err != nil {
			return nil, fmt.Errorf("search %s: %w", root, err)
		}
	}

	res := make(Results, len(found))
	for key, bySample := range found {
		files := make([]File, 0, len(bySample))
		for _, file := range bySample {
			files = append(files, file)
		}
		sort.Slice(files, func(i, j int) bool { return files[i].Sample < files[j].Sample })
		res[key] = files
	}
	return res, nil
}

func (f *Finder) classify(path string, found map[string]map[string]File) error {
	base := filepath.Base(path)
	for _, m := range f.matchers {
		if !m.fn.Match(base) {
			continue
		}
		if m.contents != nil {
			ok, err := matchContents(path, m.contents, m.numLines)
			if err != nil {
				return err
			}
			if !ok {
				continue
			}
		}

		sample := CleanSampleName(base, m.ext)
		if found[m.key] == nil {
			found[m.key] = make(map[string]File)
		}
		if prev, dup := found[m.key][sample]; dup {
			f.logger.Warn("duplicate sample name, overwriting",
				zap.String("sample", sample),
				zap.String("previous", prev.Path),
				zap.String("file", path))
		}
		found[m.key][sample] = File{Sample: sample, Path: path, Pattern: m.key}
		f.logger.Debug("found input",
			zap.String("pattern", m.key),
			zap.String("sample", sample),
			zap.String("file", path))
	}
	return nil
}

// matchContents reports whether any of the first numLines lines of the file
// match re. All lines are searched when numLines is zero.
func matchContents(path string, re *regexp.Regexp, numLines int) (bool, error) {
	file, err := os.Open(path)
	if err != nil {
		return false, err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 64*1024), 10*1024*1024)
	for n := 0; scanner.Scan(); n++ {
		if numLines > 0 && n >= numLines {
			break
		}
		if re.Match(scanner.Bytes()) {
			return true, nil
		}
	}
	return false, scanner.Err()
}

// CleanSampleName derives a sample name from a file name by removing the
// extension matched by the search pattern.
func CleanSampleName(base, ext string) string {
	if ext != "" && strings.HasSuffix(base, ext) && len(base) > len(ext) {
		return strings.TrimSuffix(base, ext)
	}
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// literalSuffix returns the literal text after the last wildcard of a glob
// such as "*.refCoverage".
func literalSuffix(pattern string) string {
	i := strings.LastIndexAny(pattern, "*?]}")
	suffix := pattern[i+1:]
	if strings.ContainsAny(suffix, "[{\\") {
		return ""
	}
	return suffix
}

func absPath(p string) string {
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return filepath.Clean(p)
}
