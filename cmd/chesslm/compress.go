package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/feat7/chess-lm/internal/codec"
	"github.com/feat7/chess-lm/internal/codec/gzipcodec"
	"github.com/feat7/chess-lm/internal/codec/zstdcodec"
	"github.com/feat7/chess-lm/internal/pgn"
)

var compressCmd = &cobra.Command{
	Use:   "compress",
	Short: "Compress plain PGN archives",
	Long: `Compress every plain .pgn file in a directory, writing the compressed
archive alongside it. The build command reads both forms transparently,
so large archives can be stored compressed.

Already-compressed files (.pgn.zst, .pgn.gz) are left untouched.

Examples:
  chesslm compress --input ./pgn
  chesslm compress --input ./pgn --codec gz --remove`,
	RunE: runCompress,
}

var (
	compressInputDir string
	compressCodec    string
	compressRemove   bool
)

func init() {
	compressCmd.Flags().StringVarP(&compressInputDir, "input", "i", "./pgn", "directory of PGN files")
	compressCmd.Flags().StringVar(&compressCodec, "codec", "zst", "compression codec (zst or gz)")
	compressCmd.Flags().BoolVar(&compressRemove, "remove", false, "remove the originals after compressing")
	rootCmd.AddCommand(compressCmd)
}

func runCompress(cmd *cobra.Command, args []string) error {
	var c codec.Codec
	switch compressCodec {
	case "zst":
		c = zstdcodec.New()
	case "gz":
		c = gzipcodec.New()
	default:
		return fmt.Errorf("unknown codec %q (want zst or gz)", compressCodec)
	}

	files, err := pgn.ListFiles(compressInputDir)
	if err != nil {
		return err
	}

	var done int
	for _, f := range files {
		if !strings.HasSuffix(f, ".pgn") {
			continue
		}
		out, err := pgn.CompressArchive(f, c)
		if err != nil {
			return err
		}
		if compressRemove {
			if err := os.Remove(f); err != nil {
				return fmt.Errorf("removing %s: %w", f, err)
			}
		}
		fmt.Printf("%s -> %s\n", f, out)
		done++
	}
	fmt.Printf("Compressed %d archives\n", done)
	return nil
}
