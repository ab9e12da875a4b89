// Package mcp serves the inspector as Model Context Protocol tools.
package mcp

import (
	"context"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"

	"github.com/mesh-intelligence/dbinspector/internal/probe"
	"github.com/mesh-intelligence/dbinspector/pkg/types"
)

type Server struct {
	inspector types.Inspector
	fs        afero.Fs
	app       probe.AppContext
	cfg       types.Config
	log       *logrus.Entry
	mcp       *sdk.Server
}

func NewServer(inspector types.Inspector, fs afero.Fs, app probe.AppContext, cfg types.Config, version string, log *logrus.Entry) *Server {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	s := &Server{
		inspector: inspector,
		fs:        fs,
		app:       app,
		cfg:       cfg,
		log:       log,
		mcp: sdk.NewServer(&sdk.Implementation{
			Name:    "dbinspector",
			Version: version,
		}, nil),
	}
	s.registerTools()
	return s
}

func (s *Server) Run(ctx context.Context, transport sdk.Transport) error {
	return s.mcp.Run(ctx, transport)
}
