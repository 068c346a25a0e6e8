package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	clog "github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHelpers_WriteToBuffer(t *testing.T) {
	var buf bytes.Buffer
	prev := L
	L = clog.New(&buf)
	L.SetLevel(clog.DebugLevel)
	defer func() { L = prev }()

	Debugf("hello %s", "dbg")
	Infof("info %d", 1)
	Warnf("warn")
	Errorf("err %v", "E")

	out := buf.String()
	assert.Contains(t, out, "hello dbg")
	assert.Contains(t, out, "info 1")
	assert.Contains(t, out, "warn")
	assert.Contains(t, out, "err E")
}

func TestInit(t *testing.T) {
	prev := L
	defer func() { L = prev }()

	t.Run("无效级别返回错误", func(t *testing.T) {
		err := Init(Options{Level: "loud"})
		assert.Error(t, err)
	})

	t.Run("写入文件并使用json格式", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "logs", "app.log")
		require.NoError(t, Init(Options{Level: "debug", Format: "json", Output: "file", Path: path}))

		With("slug").Info("retry", "candidate", "databases-2")

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Contains(t, string(data), `"candidate":"databases-2"`)
		assert.Contains(t, string(data), `"prefix":"slug"`)
	})
}
