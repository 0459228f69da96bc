package audit

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/eventd/backend/internal/domain/event"
	"github.com/eventd/backend/internal/infrastructure/config"
	"github.com/eventd/backend/internal/infrastructure/storage"
	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func completedEvent(id, title, description string, at time.Time) *event.Event {
	e := event.NewEvent(id, title, description, at, at)
	e.Status = event.StatusCompleted
	return e
}

func goldenEvents() []*event.Event {
	cst := time.FixedZone("CST", 8*3600)
	return []*event.Event{
		completedEvent("evt-1", "Team sync", "Weekly planning", time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)),
		completedEvent("evt-2", "Retro, part 2", "no escaping", time.Date(2024, 1, 1, 15, 30, 0, 250*int(time.Millisecond), cst)),
	}
}

func TestFormatRecord_Golden(t *testing.T) {
	var b strings.Builder
	for _, e := range goldenEvents() {
		b.WriteString(FormatRecord(e))
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "audit_lines", []byte(b.String()))
}

func TestFileSink_Append(t *testing.T) {
	t.Run("多次追加保留全部行", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "logs", "event_history.log")
		sink := NewFileSink(path)
		ctx := context.Background()
		events := goldenEvents()

		require.NoError(t, sink.Append(ctx, events))
		require.NoError(t, sink.Append(ctx, events[:1]))

		lines, err := ReadLines(path)
		require.NoError(t, err)
		require.Len(t, lines, 3)
		assert.Equal(t, "evt-1,Team sync,Weekly planning,2024-01-01T10:00:00.000Z,completed", lines[0])
		assert.Equal(t, lines[0], lines[2])
	})

	t.Run("空批次不创建文件", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "event_history.log")
		sink := NewFileSink(path)

		require.NoError(t, sink.Append(context.Background(), nil))
		_, err := os.Stat(path)
		assert.True(t, errors.Is(err, os.ErrNotExist))

		lines, err := ReadLines(path)
		require.NoError(t, err)
		assert.Empty(t, lines)
	})

	t.Run("无法打开文件时返回错误", func(t *testing.T) {
		dir := t.TempDir()
		// 路径本身是目录，无法以文件方式打开
		sink := NewFileSink(dir)
		err := sink.Append(context.Background(), goldenEvents())
		assert.Error(t, err)
	})
}

type failingSink struct {
	calls int
}

func (f *failingSink) Append(ctx context.Context, events []*event.Event) error {
	f.calls++
	return errors.New("sink unavailable")
}

func TestMultiSink_Append(t *testing.T) {
	t.Run("某个目标失败时其余目标照常写入", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "event_history.log")
		bad := &failingSink{}
		multi := NewMultiSink(bad, NewFileSink(path))

		err := multi.Append(context.Background(), goldenEvents())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "sink unavailable")
		assert.Equal(t, 1, bad.calls)

		lines, err := ReadLines(path)
		require.NoError(t, err)
		assert.Len(t, lines, 2)
	})

	t.Run("全部成功时返回 nil", func(t *testing.T) {
		multi := NewMultiSink(NewFileSink(filepath.Join(t.TempDir(), "a.log")))
		assert.NoError(t, multi.Append(context.Background(), goldenEvents()))
	})
}

func TestProvideSink(t *testing.T) {
	t.Run("未配置镜像时只有文本日志", func(t *testing.T) {
		sink := ProvideSink(&config.AuditConfig{LogPath: filepath.Join(t.TempDir(), "a.log")}, nil)
		assert.Equal(t, 1, sink.Len())
	})

	t.Run("配置镜像时同时写入 SQLite", func(t *testing.T) {
		dir := t.TempDir()
		db, err := storage.OpenDB(filepath.Join(dir, "audit.db"))
		require.NoError(t, err)
		defer db.Close()

		mirror, err := storage.NewAuditRepository(db)
		require.NoError(t, err)

		sink := ProvideSink(&config.AuditConfig{LogPath: filepath.Join(dir, "a.log")}, mirror)
		assert.Equal(t, 2, sink.Len())

		ctx := context.Background()
		require.NoError(t, sink.Append(ctx, goldenEvents()))

		records, err := mirror.FindAll(ctx)
		require.NoError(t, err)
		assert.Len(t, records, 2)
	})
}
