package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand(t *testing.T) {
	t.Run("参数注册", func(t *testing.T) {
		cmd := newRootCommand()

		require.NotNil(t, cmd.PersistentFlags().Lookup("config"))
		require.NotNil(t, cmd.Flags().Lookup("port"))
	})

	t.Run("discover 子命令", func(t *testing.T) {
		cmd := newRootCommand()

		sub, _, err := cmd.Find([]string{"discover"})
		require.NoError(t, err)
		assert.Equal(t, "discover", sub.Name())

		flag := sub.Flags().Lookup("timeout")
		require.NotNil(t, flag)
		assert.Equal(t, (3 * time.Second).String(), flag.DefValue)
	})

	t.Run("非法配置文件", func(t *testing.T) {
		cmd := newRootCommand()
		cmd.SetArgs([]string{"--config", "/nonexistent/eventd.yaml"})

		err := cmd.Execute()
		assert.Error(t, err)
	})
}
