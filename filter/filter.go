// Package filter selects which listed objects a load should read.
//
// Filters include or exclude objects by key pattern, size and age, on top
// of the decoder's extension match.
//
// Basic usage:
//
//	f := filter.New(
//	    filter.Include("part-*"),
//	    filter.Exclude("*_tmp*"),
//	    filter.MaxSize(512 * filter.MB),
//	)
//
//	res, err := l.LoadPrefix(ctx, bucket, "events", loader.PrefixOptions{
//	    Filter: f,
//	})
package filter

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path"
	"strings"
	"time"

	"github.com/grokify/omnitable"
)

// Filter decides whether a listed object is loaded.
// A nil Filter matches everything.
type Filter struct {
	rules []rule
	now   func() time.Time
}

type ruleType int

const (
	ruleInclude ruleType = iota
	ruleExclude
	ruleMinSize
	ruleMaxSize
	ruleMinAge
	ruleMaxAge
)

type rule struct {
	ruleType ruleType
	pattern  string        // include/exclude
	size     int64         // min/max size
	duration time.Duration // min/max age
}

// Option configures a Filter.
type Option func(*Filter)

// New creates a Filter with the given options.
func New(opts ...Option) *Filter {
	f := &Filter{now: time.Now}
	for _, opt := range opts {
		if opt != nil {
			opt(f)
		}
	}
	return f
}

// Include adds an include pattern. When any include pattern is set, an
// object must match at least one of them.
// Patterns use path.Match syntax and are tried against the full key and
// against its last segment.
func Include(pattern string) Option {
	return func(f *Filter) {
		f.rules = append(f.rules, rule{ruleType: ruleInclude, pattern: pattern})
	}
}

// Exclude adds an exclude pattern. Excludes win over includes.
func Exclude(pattern string) Option {
	return func(f *Filter) {
		f.rules = append(f.rules, rule{ruleType: ruleExclude, pattern: pattern})
	}
}

// MinSize excludes objects smaller than size bytes.
func MinSize(size int64) Option {
	return func(f *Filter) {
		f.rules = append(f.rules, rule{ruleType: ruleMinSize, size: size})
	}
}

// MaxSize excludes objects larger than size bytes.
func MaxSize(size int64) Option {
	return func(f *Filter) {
		f.rules = append(f.rules, rule{ruleType: ruleMaxSize, size: size})
	}
}

// MinAge excludes objects modified less than d ago.
func MinAge(d time.Duration) Option {
	return func(f *Filter) {
		f.rules = append(f.rules, rule{ruleType: ruleMinAge, duration: d})
	}
}

// MaxAge excludes objects modified more than d ago.
func MaxAge(d time.Duration) Option {
	return func(f *Filter) {
		f.rules = append(f.rules, rule{ruleType: ruleMaxAge, duration: d})
	}
}

// WithClock sets the time source used for age rules.
func WithClock(now func() time.Time) Option {
	return func(f *Filter) {
		if now != nil {
			f.now = now
		}
	}
}

// FromReader reads pattern rules, one per line. Lines starting with "+ "
// are includes, lines starting with "- " are excludes, and any other
// non-empty line is an exclude. Blank lines and lines starting with # are
// ignored.
//
// Example:
//
//	# only data files
//	+ part-*
//	- *_tmp*
func FromReader(r io.Reader) (Option, error) {
	var opts []Option
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		switch {
		case strings.HasPrefix(line, "+ "):
			opts = append(opts, Include(strings.TrimSpace(line[2:])))
		case strings.HasPrefix(line, "- "):
			opts = append(opts, Exclude(strings.TrimSpace(line[2:])))
		default:
			opts = append(opts, Exclude(line))
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("filter: reading rules: %w", err)
	}

	for _, o := range opts {
		if err := validate(o); err != nil {
			return nil, err
		}
	}

	return func(f *Filter) {
		for _, opt := range opts {
			opt(f)
		}
	}, nil
}

// FromFile reads pattern rules from a file. See FromReader for the format.
func FromFile(name string) (Option, error) {
	file, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer func() { _ = file.Close() }()
	return FromReader(file)
}

// validate rejects malformed patterns.
func validate(opt Option) error {
	var f Filter
	opt(&f)
	for _, r := range f.rules {
		if _, err := path.Match(r.pattern, ""); err != nil {
			return fmt.Errorf("filter: bad pattern %q: %w", r.pattern, err)
		}
	}
	return nil
}

// Match returns true if obj passes the filter:
//  1. if there are include patterns, obj must match one
//  2. obj must match no exclude pattern
//  3. obj must satisfy every size and age rule
func (f *Filter) Match(obj omnitable.ObjectInfo) bool {
	if f.IsEmpty() {
		return true
	}

	hasIncludes := false
	matchesInclude := false
	for _, r := range f.rules {
		if r.ruleType == ruleInclude {
			hasIncludes = true
			if matchPattern(r.pattern, obj.Key) {
				matchesInclude = true
			}
		}
	}
	if hasIncludes && !matchesInclude {
		return false
	}

	now := time.Now
	if f.now != nil {
		now = f.now
	}

	for _, r := range f.rules {
		switch r.ruleType {
		case ruleExclude:
			if matchPattern(r.pattern, obj.Key) {
				return false
			}
		case ruleMinSize:
			if obj.Size < r.size {
				return false
			}
		case ruleMaxSize:
			if obj.Size > r.size {
				return false
			}
		case ruleMinAge:
			if now().Sub(obj.ModTime) < r.duration {
				return false
			}
		case ruleMaxAge:
			if now().Sub(obj.ModTime) > r.duration {
				return false
			}
		}
	}

	return true
}

// MatchKey matches by key only. Size and age rules see a zero object.
func (f *Filter) MatchKey(key string) bool {
	return f.Match(omnitable.ObjectInfo{Key: key})
}

// Apply returns the objects that pass the filter, in order.
func (f *Filter) Apply(objects []omnitable.ObjectInfo) []omnitable.ObjectInfo {
	if f.IsEmpty() {
		return objects
	}
	out := make([]omnitable.ObjectInfo, 0, len(objects))
	for _, obj := range objects {
		if f.Match(obj) {
			out = append(out, obj)
		}
	}
	return out
}

// IsEmpty returns true if the filter has no rules.
func (f *Filter) IsEmpty() bool {
	return f == nil || len(f.rules) == 0
}

// matchPattern tries pattern against the full key and its last segment.
// "**" is treated as "*".
func matchPattern(pattern, key string) bool {
	if matched, _ := path.Match(pattern, key); matched {
		return true
	}

	base := path.Base(key)
	if matched, _ := path.Match(pattern, base); matched {
		return true
	}

	if strings.Contains(pattern, "**") {
		simple := strings.ReplaceAll(pattern, "**", "*")
		if matched, _ := path.Match(simple, key); matched {
			return true
		}
		if matched, _ := path.Match(simple, base); matched {
			return true
		}
	}

	return false
}

// Size units for MinSize and MaxSize.
const (
	KB = 1024
	MB = 1024 * KB
	GB = 1024 * MB
)
