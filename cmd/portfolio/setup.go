package main

import (
	"fmt"
	"time"

	"github.com/sebas2906/portfolio/internal/config"
	"github.com/sebas2906/portfolio/internal/logger"
	"github.com/sebas2906/portfolio/pkg/chat"
	"github.com/sebas2906/portfolio/pkg/content"
	"github.com/sebas2906/portfolio/pkg/models"
	"github.com/sebas2906/portfolio/pkg/render"
	"github.com/sebas2906/portfolio/pkg/scene"
	"github.com/sebas2906/portfolio/pkg/store"
)

const particleCount = 200

func loadPage(cfg *config.Config) (*content.Page, error) {
	if cfg.App.ContentPath == "" {
		return content.Default(), nil
	}
	return content.Load(cfg.App.ContentPath)
}

// buildScene loads the gradient map and any model overrides and builds the
// scene. A missing gradient map is not fatal.
func buildScene(cfg *config.Config, page *content.Page, log logger.Logger) (*scene.Scene, error) {
	gradient, err := scene.LoadGradient(cfg.App.GradientPath)
	if err != nil {
		log.Warn("scene", "gradient map unavailable, using step ramp", map[string]interface{}{
			"path":  cfg.App.GradientPath,
			"error": err.Error(),
		})
	}

	var tint render.Color
	if page.Accent != "" {
		if tint, err = render.ParseHexColor(page.Accent); err != nil {
			return nil, fmt.Errorf("accent: %w", err)
		}
	}

	meshes := make([]*models.Mesh, len(page.Sections))
	for i, path := range page.Models() {
		mesh, err := scene.LoadMesh(i, path)
		if err != nil {
			return nil, err
		}
		meshes[i] = mesh
	}

	s, err := scene.Build(scene.Options{
		Meshes:    meshes,
		Particles: particleCount,
		Seed:      time.Now().UnixNano(),
		Gradient:  gradient,
		Color:     tint,
	})
	if err != nil {
		return nil, err
	}

	log.Info("scene", "scene built", map[string]interface{}{
		"sections":  len(s.Sections),
		"triangles": s.TriangleCount(),
		"particles": len(s.Particles),
	})
	return s, nil
}

// openStore opens the conversation store. If the database cannot be opened
// the page still works, it just forgets the conversation on exit.
func openStore(cfg *config.Config, log logger.Logger) store.KV {
	if cfg.Storage.Ephemeral {
		return store.NewMemoryStore()
	}
	kv, err := store.OpenSQLite(cfg.Storage.DBPath)
	if err != nil {
		log.Warn("store", "falling back to memory store", map[string]interface{}{
			"path":  cfg.Storage.DBPath,
			"error": err.Error(),
		})
		return store.NewMemoryStore()
	}
	log.Debug("store", "opened conversation store", map[string]interface{}{"path": kv.Path()})
	return kv
}

func newWidget(cfg *config.Config, kv store.KV, log logger.Logger) *chat.Widget {
	var tokens chat.TokenSource = chat.StaticToken(cfg.Chat.StaticToken)
	if cfg.Chat.TokenURL != "" {
		tokens = chat.NewChallengeClient(cfg.Chat.TokenURL)
	}
	return chat.NewWidget(chat.NewClient(cfg.Chat.Endpoint), tokens, kv, log)
}
