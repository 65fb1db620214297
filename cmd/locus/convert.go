package main

import (
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jobrunner/locus/internal/codec"
	"github.com/jobrunner/locus/internal/domain"
)

var (
	convertFrom string
	convertTo   string
)

var convertCmd = &cobra.Command{
	Use:   "convert [geometry]",
	Short: "Convert a geometry between WKT, WKB and GeoJSON",
	Long: `Convert a single geometry between encodings.

Reads the geometry from the argument, or from stdin when no argument is
given. WKB input and output use hex encoding.

Examples:
  locus convert --to geojson 'POINT(13.4 52.5)'
  locus convert --to wkb 'SRID=4326;POLYGON((0 0, 10 0, 10 10, 0 10, 0 0))'
  echo '0101000000...' | locus convert --from wkb --to wkt`,
	Args: cobra.MaximumNArgs(1),
	RunE: runConvert,
}

func init() {
	convertCmd.Flags().StringVar(&convertFrom, "from", "wkt", "input format (wkt, wkb)")
	convertCmd.Flags().StringVar(&convertTo, "to", "geojson", "output format (wkt, wkb, geojson)")
}

func runConvert(_ *cobra.Command, args []string) error {
	input, err := convertInput(args)
	if err != nil {
		return err
	}

	var geom domain.Geometry
	switch strings.ToLower(convertFrom) {
	case "wkt":
		geom, err = codec.ParseWKT(input)
	case "wkb":
		var raw []byte
		raw, err = hex.DecodeString(input)
		if err != nil {
			return fmt.Errorf("decoding hex input: %w", err)
		}
		geom, err = codec.ParseWKB(raw)
	default:
		return fmt.Errorf("unsupported input format: %s", convertFrom)
	}
	if err != nil {
		return fmt.Errorf("parsing geometry: %w", err)
	}

	switch strings.ToLower(convertTo) {
	case "wkt":
		s, err := codec.MarshalWKT(geom)
		if err != nil {
			return err
		}
		fmt.Println(s)
	case "wkb":
		b, err := codec.MarshalWKB(geom)
		if err != nil {
			return err
		}
		fmt.Println(hex.EncodeToString(b))
	case "geojson":
		b, err := codec.MarshalGeoJSON(geom)
		if err != nil {
			return err
		}
		fmt.Println(string(b))
	default:
		return fmt.Errorf("unsupported output format: %s", convertTo)
	}

	return nil
}

func convertInput(args []string) (string, error) {
	if len(args) == 1 {
		return strings.TrimSpace(args[0]), nil
	}
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", fmt.Errorf("reading stdin: %w", err)
	}
	s := strings.TrimSpace(string(data))
	if s == "" {
		return "", fmt.Errorf("no geometry given")
	}
	return s, nil
}
