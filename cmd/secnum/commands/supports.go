package commands

import (
	ferrors "git.home.luguber.info/inful/secnum/internal/foundation/errors"
	"git.home.luguber.info/inful/secnum/internal/logfields"
	"git.home.luguber.info/inful/secnum/internal/preprocessor"
)

// SupportsCmd answers mdBook's renderer probe through the exit status.
type SupportsCmd struct {
	Renderer string `arg:"" help:"Renderer name, e.g. html"`
}

func (s *SupportsCmd) Run(g *Global) error {
	if !preprocessor.Supports(s.Renderer) {
		return ferrors.ValidationError("renderer not supported").
			WithContext("renderer", s.Renderer).
			Build()
	}
	g.Logger.Debug("Renderer supported", logfields.Renderer(s.Renderer))
	return nil
}
