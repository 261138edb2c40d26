package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dyuri/sc2conv/internal/render"
	"github.com/dyuri/sc2conv/pkg/sc2conv"
	"github.com/spf13/cobra"
)

// render command
var renderCmd = &cobra.Command{
	Use:   "render <input.sc2>",
	Short: "Render a city map overview",
	Long: `Render a PNG overview of the city map, or of one of its overlays.

With --picture the scenario preview image is also written as a BMP.`,
	Args: cobra.ExactArgs(1),
	RunE: runRender,
}

func init() {
	renderCmd.Flags().StringP("output", "o", "", "Output PNG (default: input name with .png)")
	renderCmd.Flags().Int("scale", 4, "Pixels per tile")
	renderCmd.Flags().String("overlay", "", "Draw an overlay instead: traffic, pollution, value, crime, police, fire, density, growth")
	renderCmd.Flags().Bool("outlines", false, "Outline multi-tile buildings")
	renderCmd.Flags().String("picture", "", "Also write the scenario preview to this BMP file")
	addDecodeFlags(renderCmd.Flags())
}

func runRender(cmd *cobra.Command, args []string) error {
	inputPath := args[0]
	outputPath, _ := cmd.Flags().GetString("output")
	scale, _ := cmd.Flags().GetInt("scale")
	overlay, _ := cmd.Flags().GetString("overlay")
	outlines, _ := cmd.Flags().GetBool("outlines")
	picturePath, _ := cmd.Flags().GetString("picture")

	if sc2conv.IsTileSet(inputPath) {
		return fmt.Errorf("%s is a tile set, only cities can be rendered", inputPath)
	}

	city, _, err := sc2conv.ParseFile(inputPath,
		sc2conv.WithLogger(log.WithField("file", inputPath)),
		sc2conv.WithCharset(charset(cmd)))
	if err != nil {
		return fmt.Errorf("parse %s: %w", inputPath, err)
	}

	if outputPath == "" {
		outputPath = strings.TrimSuffix(inputPath, filepath.Ext(inputPath)) + ".png"
	}

	out, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("create output file: %w", err)
	}
	defer out.Close()

	opts := render.MapOptions{Scale: scale, Overlay: overlay, Outlines: outlines}
	if err := render.EncodeMapPNG(out, city, opts); err != nil {
		return fmt.Errorf("render map: %w", err)
	}
	log.WithField("output", outputPath).Info("map rendered")

	if picturePath != "" {
		if city.Scenario == nil || city.Scenario.Picture == nil {
			return fmt.Errorf("%s has no scenario picture", inputPath)
		}
		pic, err := os.Create(picturePath)
		if err != nil {
			return fmt.Errorf("create picture file: %w", err)
		}
		defer pic.Close()

		if err := render.EncodePictureBMP(pic, city.Scenario.Picture); err != nil {
			return fmt.Errorf("write picture: %w", err)
		}
		log.WithField("output", picturePath).Info("scenario picture written")
	}

	return nil
}
