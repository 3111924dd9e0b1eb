package cmd

import (
	"fmt"
	"io"
	"log"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ArnaudCalmettes/equalizer/device"
	"github.com/ArnaudCalmettes/equalizer/equalize"
	"github.com/ArnaudCalmettes/equalizer/imp"
	"github.com/ArnaudCalmettes/equalizer/input"
)

var (
	inFile      string
	outFile     string
	interactive bool
	verify      bool
)

// equalizeCmd represents the equalize command
var equalizeCmd = &cobra.Command{
	Use:   "equalize",
	Short: "Equalize the histogram of an image.",
	RunE:  runEqualize,
}

func init() {
	rootCmd.AddCommand(equalizeCmd)

	flags := equalizeCmd.Flags()
	flags.StringVarP(&inFile, "in", "i", "test.pgm", "input image (pgm, ppm, png, jpg...)")
	flags.StringVarP(&outFile, "out", "o", "", "output image (default is <in>_equalized.<ext>)")
	flags.Int("bins", 256, "number of histogram bins, a power of two from 2 to 256")
	flags.String("mode", "local", "histogram accumulation: global or local")
	flags.String("scan", "blelloch", "prefix sum: blelloch or hillis_steele")
	flags.BoolVar(&interactive, "interactive", false, "ask for the image and options")
	flags.BoolVar(&verify, "verify", false, "check the result against the sequential reference")
	viper.BindPFlag("bins", flags.Lookup("bins"))
	viper.BindPFlag("mode", flags.Lookup("mode"))
	viper.BindPFlag("scan", flags.Lookup("scan"))
}

func outputPath(in string) string {
	ext := filepath.Ext(in)
	return strings.TrimSuffix(in, ext) + "_equalized" + ext
}

func runEqualize(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	verbose := viper.GetBool("verbose")

	path, colour := inFile, imp.IsColourFile(inFile)
	cfg, err := equalize.ParseConfig(viper.GetInt("bins"), viper.GetString("mode"), viper.GetString("scan"))
	if err != nil {
		return err
	}
	if interactive {
		sel, err := input.NewPrompt(cmd.InOrStdin(), out).Configure()
		if err != nil {
			return err
		}
		path, colour, cfg = sel.Image, sel.Colour, sel.Config
	}
	dst := outFile
	if dst == "" {
		dst = outputPath(path)
	}

	dctx, err := device.NewContext(viper.GetInt("platform"), viper.GetInt("device"))
	if err != nil {
		return err
	}
	img, err := imp.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %v: %w", path, err)
	}
	pb := imp.ToPixelBuffer(img, colour)

	logger := log.New(io.Discard, "", 0)
	if verbose {
		logger = log.New(cmd.ErrOrStderr(), "", log.Ltime)
	}
	p, err := equalize.New(dctx, cfg, func(o *equalize.Options) {
		o.Logger = logger
		if verbose {
			o.Middleware = append(o.Middleware, equalize.LogStages(logger))
		}
	})
	if err != nil {
		return err
	}
	res, err := p.Run(cmd.Context(), pb)
	if err != nil {
		return err
	}

	if verbose {
		fmt.Fprintln(out, "Histogram:", res.Histogram)
		fmt.Fprintln(out, "Cumulative histogram:", res.Cumulative)
		fmt.Fprintln(out, "Lookup table:", res.Lookup)
	}
	fmt.Fprintln(out, res.Report)

	if verify {
		ref, _, err := imp.Equalize(pb, cfg.Bins())
		if err != nil {
			return err
		}
		for i := range ref.Pix {
			if ref.Pix[i] != res.Image.Pix[i] {
				return fmt.Errorf("verify: sample %d is %d on the device, %d in the reference", i, res.Image.Pix[i], ref.Pix[i])
			}
		}
		fmt.Fprintln(out, "Result matches the sequential reference")
	}

	outImg, err := imp.ToImage(res.Image.PixelBuffer)
	if err != nil {
		return err
	}
	if err := imp.Save(dst, outImg); err != nil {
		return err
	}
	fmt.Fprintln(out, "Saved", dst)
	return nil
}
