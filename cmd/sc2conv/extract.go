package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/dyuri/sc2conv/internal/diskimage"
	"github.com/spf13/cobra"
)

// extract command
var extractCmd = &cobra.Command{
	Use:   "extract <image.iso>",
	Short: "Extract saves from a disk image",
	Long: `Extract .sc2, .scn and .mif files from CD-ROM (ISO9660) or floppy (FAT)
images.

The extracted files can then be converted with the convert command.`,
	Args: cobra.ExactArgs(1),
	RunE: runExtract,
}

func init() {
	extractCmd.Flags().StringP("output", "o", "", "Output directory (required for extraction)")
	extractCmd.Flags().BoolP("list", "l", false, "List files without extracting")
}

func runExtract(cmd *cobra.Command, args []string) error {
	inputPath := args[0]
	outputPath, _ := cmd.Flags().GetString("output")
	list, _ := cmd.Flags().GetBool("list")

	img, err := diskimage.Open(inputPath, log)
	if err != nil {
		return err
	}

	// If listing, just show the files and return
	if list {
		files, err := img.List()
		if err != nil {
			return err
		}
		fmt.Printf("Found %d city file(s) in %s:\n", len(files), filepath.Base(inputPath))
		for _, file := range files {
			fmt.Printf("  - %s\n", file)
		}
		return nil
	}

	if outputPath == "" {
		return fmt.Errorf("--output is required for extraction")
	}

	extractedFiles, err := img.Extract(outputPath)
	if err != nil {
		return err
	}

	// Show what was extracted
	fmt.Printf("Extracted %d file(s) to %s:\n", len(extractedFiles), outputPath)
	for _, file := range extractedFiles {
		stat, err := os.Stat(file)
		if err != nil {
			fmt.Printf("  - %s (error reading: %v)\n", filepath.Base(file), err)
			continue
		}
		fmt.Printf("  - %s (%d bytes)\n", filepath.Base(file), stat.Size())
	}

	return nil
}
