package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/dyuri/sc2conv/internal/model"
	"github.com/dyuri/sc2conv/pkg/sc2conv"
	"github.com/spf13/cobra"
)

// info command
var infoCmd = &cobra.Command{
	Use:   "info <input.sc2>",
	Short: "Display city information",
	Long: `Display metadata and statistics about a city save or tile set.

Shows the city name, platform, funds, building counts and scenario goals.`,
	Args: cobra.ExactArgs(1),
	RunE: runInfo,
}

func init() {
	infoCmd.Flags().Bool("json", false, "Output as JSON")
	infoCmd.Flags().Bool("brief", false, "Show only summary")
	addDecodeFlags(infoCmd.Flags())
}

func runInfo(cmd *cobra.Command, args []string) error {
	inputPath := args[0]
	jsonOutput, _ := cmd.Flags().GetBool("json")
	brief, _ := cmd.Flags().GetBool("brief")

	stat, err := os.Stat(inputPath)
	if err != nil {
		return fmt.Errorf("stat input file: %w", err)
	}

	city, ts, err := sc2conv.ParseFile(inputPath,
		sc2conv.WithLogger(log.WithField("file", inputPath)),
		sc2conv.WithCharset(charset(cmd)))
	if err != nil {
		return fmt.Errorf("parse %s: %w", inputPath, err)
	}

	if ts != nil {
		return outputTileSetInfo(inputPath, ts, stat.Size(), jsonOutput)
	}
	if jsonOutput {
		return outputInfoJSON(inputPath, city, stat.Size())
	}
	return outputInfoText(inputPath, city, stat.Size(), brief)
}

func platform(mac bool) string {
	if mac {
		return "Mac"
	}
	return "PC"
}

func uniqueCount(m map[model.Coord]*model.Building) int {
	seen := make(map[*model.Building]bool)
	for _, b := range m {
		seen[b] = true
	}
	return len(seen)
}

func outputInfoText(path string, city *model.City, fileSize int64, brief bool) error {
	if brief {
		// Brief mode: just the counts
		fmt.Printf("%s: Name=%q Platform=%s Funds=%d Buildings=%d Networks=%d Anomalies=%d\n",
			path,
			city.Name,
			platform(city.Mac),
			city.Attributes["TotalFunds"],
			uniqueCount(city.Buildings),
			len(city.Networks),
			len(city.Anomalies))
		return nil
	}

	// Full human-readable output
	fmt.Printf("City File: %s\n", path)
	fmt.Println(strings.Repeat("=", 50))
	fmt.Println()

	fmt.Println("City:")
	fmt.Printf("  Name:             %s\n", city.Name)
	fmt.Printf("  Platform:         %s\n", platform(city.Mac))
	fmt.Printf("  Base year:        %d\n", city.Attributes["baseYear"])
	fmt.Printf("  Sim cycle:        %d\n", city.Attributes["simCycle"])
	fmt.Printf("  Funds:            %d\n", city.Attributes["TotalFunds"])
	fmt.Printf("  Rotation:         %d\n", city.SimulatorSettings["Compass"])
	fmt.Println()

	fmt.Println("Map:")
	fmt.Printf("  Buildings:        %d (%d tiles)\n", uniqueCount(city.Buildings), len(city.Buildings))
	fmt.Printf("  Network tiles:    %d\n", len(city.Networks))
	fmt.Printf("  Groundcover:      %d\n", len(city.Groundcover))
	fmt.Printf("  Labels:           %d\n", len(city.Labels))
	fmt.Printf("  Things:           %d\n", len(city.Things))
	fmt.Println()

	fmt.Printf("File Size:          %s (%d bytes)\n", formatBytes(fileSize), fileSize)
	fmt.Println()

	fmt.Println("Neighbours:")
	for i, n := range city.Neighbours {
		fmt.Printf("  %d: population %d, value %d, fame %d\n", i, n.Population, n.Value, n.Fame)
	}
	fmt.Println()

	if s := city.Scenario; s != nil {
		fmt.Println("Scenario:")
		fmt.Printf("  %s\n", s.ShortText)
		fmt.Printf("  Time limit:       %d months\n", s.Goals.TimeLimitMonths)
		fmt.Printf("  City size goal:   %d\n", s.Goals.CitySize)
		if s.Picture != nil {
			fmt.Printf("  Picture:          %dx%d\n", s.Picture.Width, s.Picture.Height)
		}
		fmt.Println()
	}

	if len(city.Anomalies) > 0 && len(city.Anomalies) <= 20 {
		fmt.Println("Anomalies:")
		for _, a := range city.Anomalies {
			fmt.Printf("  [%s] %s\n", a.Chunk, a.Message)
		}
	} else if len(city.Anomalies) > 20 {
		fmt.Printf("Anomalies:          %d (run validate for the list)\n", len(city.Anomalies))
	}

	return nil
}

func outputInfoJSON(path string, city *model.City, fileSize int64) error {
	info := map[string]interface{}{
		"file": path,
		"city": map[string]interface{}{
			"name":     city.Name,
			"platform": platform(city.Mac),
			"baseYear": city.Attributes["baseYear"],
			"funds":    city.Attributes["TotalFunds"],
			"rotation": city.SimulatorSettings["Compass"],
		},
		"counts": map[string]int{
			"buildings":   uniqueCount(city.Buildings),
			"networks":    len(city.Networks),
			"groundcover": len(city.Groundcover),
			"labels":      len(city.Labels),
			"things":      len(city.Things),
			"anomalies":   len(city.Anomalies),
		},
		"scenario": city.Scenario != nil,
		"fileSize": fileSize,
	}

	// Pretty print JSON
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(info)
}

func outputTileSetInfo(path string, ts *model.TileSet, fileSize int64, jsonOutput bool) error {
	sizes := make(map[string]int, len(ts.Chunks))
	for id, data := range ts.Chunks {
		sizes[id] = len(data)
	}

	if jsonOutput {
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(map[string]interface{}{
			"file":     path,
			"name":     ts.Name,
			"platform": platform(ts.Mac),
			"chunks":   sizes,
			"fileSize": fileSize,
		})
	}

	fmt.Printf("Tile Set: %s\n", path)
	fmt.Println(strings.Repeat("=", 50))
	fmt.Printf("  Name:             %s\n", ts.Name)
	fmt.Printf("  Platform:         %s\n", platform(ts.Mac))
	fmt.Printf("  Chunks:           %d\n", len(ts.Chunks))
	fmt.Printf("File Size:          %s (%d bytes)\n", formatBytes(fileSize), fileSize)
	return nil
}

func formatBytes(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}
