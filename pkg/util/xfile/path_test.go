package xfile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClean(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr error
	}{
		{name: "普通相对路径", input: "logs/log.log", want: "logs/log.log"},
		{name: "冗余分隔符和点段", input: "./logs//./logback/x.log", want: "logs/logback/x.log"},
		{name: "反斜杠分隔", input: `logs\error.log`, want: "logs/error.log"},
		{name: "双点文件名合法", input: "logs/app..2024.log", want: "logs/app..2024.log"},
		{name: "空路径", input: "", wantErr: ErrEmptyPath},
		{name: "空字节", input: "logs/a\x00.log", wantErr: ErrNullByte},
		{name: "绝对路径", input: "/etc/passwd", wantErr: ErrInvalidPath},
		{name: "驱动器路径", input: `C:\logs\a.log`, wantErr: ErrInvalidPath},
		{name: "UNC 路径", input: `\\server\share`, wantErr: ErrInvalidPath},
		{name: "路径穿越", input: "../etc/passwd", wantErr: ErrPathTraversal},
		{name: "中间穿越", input: "logs/../../etc", wantErr: ErrPathTraversal},
		{name: "根目录自身", input: ".", wantErr: ErrInvalidPath},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Clean(tt.input)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestJoin(t *testing.T) {
	got, err := Join("logs", "logback", "log.202401010900.log")
	require.NoError(t, err)
	assert.Equal(t, "logs/logback/log.202401010900.log", got)

	_, err = Join("logs", "..", "..", "etc")
	assert.ErrorIs(t, err, ErrPathTraversal)

	_, err = Join("logs", "a/../b")
	assert.ErrorIs(t, err, ErrPathTraversal)
}

func TestMustJoin(t *testing.T) {
	assert.Equal(t, "logs/info.log", MustJoin("logs", "info.log"))
	assert.Panics(t, func() { MustJoin("..", "x") })
}

func TestHasDotDotSegment(t *testing.T) {
	assert.True(t, hasDotDotSegment(".."))
	assert.True(t, hasDotDotSegment(`a\..\b`))
	assert.False(t, hasDotDotSegment("..config"))
	assert.False(t, hasDotDotSegment("a/...b"))
}
