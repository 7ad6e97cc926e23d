package match

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_InvalidPattern(t *testing.T) {
	_, err := New([]string{"data/[unclosed"}, nil)
	require.Error(t, err)

	var patternErr *PatternError
	require.True(t, errors.As(err, &patternErr))
	assert.Equal(t, "data/[unclosed", patternErr.Pattern)
	assert.True(t, errors.Is(err, ErrInvalidPattern))
}

func TestMatcher_Match(t *testing.T) {
	tests := []struct {
		name     string
		includes []string
		excludes []string
		path     string
		want     bool
	}{
		{
			name:     "include match",
			includes: []string{"data/**/*.parquet"},
			path:     "data/2024/part-0001.parquet",
			want:     true,
		},
		{
			name:     "include miss",
			includes: []string{"data/**/*.parquet"},
			path:     "logs/app.log",
			want:     false,
		},
		{
			name:     "exclude wins over include",
			includes: []string{"data/**"},
			excludes: []string{"**/*.tmp"},
			path:     "data/2024/part.tmp",
			want:     false,
		},
		{
			name:     "no patterns matches everything",
			path:     "anything/at/all.txt",
			want:     true,
		},
		{
			name:     "exclude only",
			excludes: []string{"**/_*"},
			path:     "data/_SUCCESS",
			want:     false,
		},
		{
			name:     "multiple includes any match",
			includes: []string{"*.csv", "*.json"},
			path:     "report.json",
			want:     true,
		},
		{
			name:     "brace alternation",
			includes: []string{"logs/app-{a,b}/*.log"},
			path:     "logs/app-b/today.log",
			want:     true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := New(tt.includes, tt.excludes)
			require.NoError(t, err)
			assert.Equal(t, tt.want, m.Match(tt.path))
		})
	}
}

func TestMatcher_Empty(t *testing.T) {
	m, err := New(nil, nil)
	require.NoError(t, err)
	assert.True(t, m.Empty())

	m, err = New([]string{"*.txt"}, nil)
	require.NoError(t, err)
	assert.False(t, m.Empty())
}

func TestIsHidden(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"path/to/file.txt", false},
		{".hidden/file.txt", true},
		{"path/.hidden/file.txt", true},
		{"path/to/.gitignore", true},
		{"path/to/file.txt.", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, IsHidden(tt.path))
		})
	}
}

func TestDerivePrefix(t *testing.T) {
	tests := []struct {
		pattern string
		want    string
	}{
		{"data/2024/**/*.parquet", "data/2024/"},
		{"*.json", ""},
		{"logs/app-{a,b}/*.log", "logs/"},
		{"exact/path/file.txt", "exact/path/file.txt"},
		{"data/[0-9]*/*.csv", "data/"},
		{"prefix/", "prefix/"},
		{"data/2024-*", "data/"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.pattern, func(t *testing.T) {
			assert.Equal(t, tt.want, DerivePrefix(tt.pattern))
		})
	}
}

func TestIsGlobPattern(t *testing.T) {
	tests := []struct {
		pattern string
		want    bool
	}{
		{"data/**/*.parquet", true},
		{"data/file?.csv", true},
		{"path/to/file.txt", false},
		{`data/file\*.txt`, false},
		{"logs/{a,b}", true},
	}

	for _, tt := range tests {
		t.Run(tt.pattern, func(t *testing.T) {
			assert.Equal(t, tt.want, IsGlobPattern(tt.pattern))
		})
	}
}
