package util_test

import (
	"testing"

	"github.com/selendra/did-wallet/internal/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type component struct{}

type server struct {
	Name   string
	Logger *component
	Peers  []string
	Hook   func()
}

func TestIsStructInitialized(t *testing.T) {
	s := &server{Logger: &component{}, Peers: []string{}, Hook: func() {}}
	require.NoError(t, util.IsStructInitialized(s))

	s.Hook = nil
	err := util.IsStructInitialized(s)
	require.Error(t, err)
	assert.Equal(t, "server.Hook is not initialized", err.Error())

	var nilServer *server
	require.Error(t, util.IsStructInitialized(nilServer))
	require.Error(t, util.IsStructInitialized("nope"))
}
