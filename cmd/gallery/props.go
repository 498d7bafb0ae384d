package main

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-gallery/common"
	"github.com/Carmen-Shannon/oxy-gallery/config"
	"github.com/Carmen-Shannon/oxy-gallery/engine/scene"
)

// galleryProps converts a resolved manifest into gallery construction parameters.
func galleryProps(cfg config.Config) (scene.Props, error) {
	textColor, err := common.ParseColor(cfg.Gallery.TextColor)
	if err != nil {
		return scene.Props{}, fmt.Errorf("text color: %w", err)
	}

	props := scene.Props{
		TextColor:   textColor,
		Font:        cfg.Gallery.Font,
		ScrollSpeed: cfg.Gallery.ScrollSpeed,
		ScrollEase:  cfg.Gallery.ScrollEase,
	}
	if cfg.Gallery.Bend != nil {
		props.Bend = *cfg.Gallery.Bend
	}
	if cfg.Gallery.BorderRadius != nil {
		props.BorderRadius = *cfg.Gallery.BorderRadius
	}

	for _, it := range cfg.Items {
		props.Items = append(props.Items, scene.GalleryItem{
			Image:       it.Image,
			Text:        it.Text,
			Description: it.Description,
			Year:        it.YearString(),
		})
	}
	return props, nil
}
