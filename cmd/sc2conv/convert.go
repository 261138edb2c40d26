package main

import (
	"fmt"
	"os"

	"github.com/dyuri/sc2conv/internal/export"
	"github.com/dyuri/sc2conv/pkg/sc2conv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// convert command
var convertCmd = &cobra.Command{
	Use:   "convert <input.sc2>...",
	Short: "Convert saves to JSON documents",
	Long: `Decode city saves or tile sets and write each one as a JSON document.

Files are processed one after another. A file that fails to decode is
reported and skipped; the command fails at the end if any file failed.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runConvert,
}

func init() {
	convertCmd.Flags().StringP("output", "o", "", "Output directory (default: next to each input)")
	convertCmd.Flags().StringP("compression", "c", "", "Compression: zstd, gzip, lz4, xz, none (default: zstd)")
	convertCmd.Flags().Bool("pretty", false, "Indent the JSON")
	convertCmd.Flags().Bool("xattr", false, "Tag output files with the city name")
	convertCmd.Flags().Bool("stdout", false, "Write a single document to stdout")
	addDecodeFlags(convertCmd.Flags())
}

type convertOptions struct {
	outputDir string
	write     export.Options
	xattr     bool
	stdout    bool
	charset   string
}

func runConvert(cmd *cobra.Command, args []string) error {
	opts := convertOptions{
		outputDir: cfg.OutputDir,
		write:     export.Options{Compression: cfg.Compression, Pretty: cfg.Pretty},
		xattr:     cfg.Xattr,
		charset:   charset(cmd),
	}

	flags := cmd.Flags()
	if flags.Changed("output") {
		opts.outputDir, _ = flags.GetString("output")
	}
	if flags.Changed("compression") {
		name, _ := flags.GetString("compression")
		c, err := export.ParseCompression(name)
		if err != nil {
			return err
		}
		opts.write.Compression = c
	}
	if flags.Changed("pretty") {
		opts.write.Pretty, _ = flags.GetBool("pretty")
	}
	if flags.Changed("xattr") {
		opts.xattr, _ = flags.GetBool("xattr")
	}
	opts.stdout, _ = flags.GetBool("stdout")
	if opts.stdout && len(args) > 1 {
		return fmt.Errorf("--stdout takes a single input file")
	}

	if opts.outputDir != "" {
		if err := os.MkdirAll(opts.outputDir, 0755); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
	}

	failed := 0
	for _, input := range args {
		if err := convertFile(input, opts); err != nil {
			log.WithField("file", input).WithError(err).Error("conversion failed")
			failed++
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d file(s) failed", failed, len(args))
	}
	return nil
}

func convertFile(input string, opts convertOptions) error {
	entry := log.WithField("file", input)

	city, ts, err := sc2conv.ParseFile(input,
		sc2conv.WithLogger(entry),
		sc2conv.WithCharset(opts.charset))
	if err != nil {
		return err
	}

	src, err := export.SourceFromFile(input)
	if err != nil {
		return fmt.Errorf("stat input file: %w", err)
	}

	var (
		doc  map[string]interface{}
		name string
	)
	if city != nil {
		doc = export.CityDocument(city, src)
		name = city.Name
	} else {
		doc = export.TileSetDocument(ts, src)
		name = ts.Name
	}

	if opts.stdout {
		return export.Write(os.Stdout, doc, opts.write)
	}

	c := opts.write.Compression
	if c == "" {
		c = export.DefaultCompression
	}
	output := export.OutputPath(input, opts.outputDir, c)
	if err := export.WriteFile(output, doc, opts.write); err != nil {
		return err
	}

	if opts.xattr {
		if err := export.TagFile(output, name); err != nil {
			// Not every filesystem supports user attributes.
			entry.WithError(err).Warn("could not tag output")
		}
	}

	entry.WithFields(logrus.Fields{
		"output": output,
		"city":   name,
	}).Info("converted")
	return nil
}
