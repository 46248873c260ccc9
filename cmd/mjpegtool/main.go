// Command mjpegtool exercises the MJPEG codec sessions from the command
// line: synthetic NV12 frames through the encoder, MJPEG files through the
// decoder, or a full roundtrip. Session parameters come from flags or an
// optional YAML config file.
package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"

	"github.com/rkvideo/mjpeg"
)

// fileConfig is the YAML layout accepted by --config.
type fileConfig struct {
	Encoder mjpeg.EncoderConfig `yaml:"encoder"`
	Decoder mjpeg.DecoderConfig `yaml:"decoder"`
}

func main() {
	app := &cli.App{
		Name:  "mjpegtool",
		Usage: "exercise the hardware MJPEG encoder and decoder sessions",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "config",
				Usage: "YAML file with encoder/decoder session parameters",
			},
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "enable debug logging",
			},
			&cli.BoolFlag{
				Name:  "software",
				Usage: "force the software engine even if MPP is available",
			},
		},
		Before: func(c *cli.Context) error {
			if c.Bool("verbose") {
				logrus.SetLevel(logrus.DebugLevel)
			}
			return nil
		},
		Commands: []*cli.Command{
			encodeCommand(),
			decodeCommand(),
			roundtripCommand(),
			{
				Name:  "version",
				Usage: "print the library version",
				Action: func(c *cli.Context) error {
					fmt.Println(mjpeg.Version())
					return nil
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		logrus.Fatal(err)
	}
}

func loadConfig(c *cli.Context) (fileConfig, error) {
	cfg := fileConfig{
		Encoder: mjpeg.DefaultEncoderConfig(c.Int("width"), c.Int("height")),
		Decoder: mjpeg.DefaultDecoderConfig(c.Int("width"), c.Int("height")),
	}
	cfg.Encoder.FPS = c.Int("fps")
	cfg.Encoder.Quality = c.Int("quality")

	path := c.String("config")
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

func backendOptions(c *cli.Context) []mjpeg.Option {
	if c.Bool("software") {
		return []mjpeg.Option{mjpeg.WithBackend(mjpeg.BackendSoftware)}
	}
	return nil
}

func sessionFlags() []cli.Flag {
	return []cli.Flag{
		&cli.IntFlag{Name: "width", Value: 640, Usage: "frame width"},
		&cli.IntFlag{Name: "height", Value: 480, Usage: "frame height"},
		&cli.IntFlag{Name: "fps", Value: 30, Usage: "frame rate"},
		&cli.IntFlag{Name: "quality", Value: 80, Usage: "JPEG quality (0-100)"},
		&cli.IntFlag{Name: "frames", Value: 10, Usage: "number of frames to process"},
	}
}

func encodeCommand() *cli.Command {
	return &cli.Command{
		Name:  "encode",
		Usage: "encode synthetic NV12 frames to MJPEG",
		Flags: sessionFlags(),
		Action: func(c *cli.Context) error {
			cfg, err := loadConfig(c)
			if err != nil {
				return err
			}

			enc, err := mjpeg.NewEncoder(cfg.Encoder, backendOptions(c)...)
			if err != nil {
				return fmt.Errorf("create encoder: %w", err)
			}
			defer enc.Close()

			src := testPattern(enc.FrameSize())
			dst := make([]byte, enc.FrameSize())

			for i := 0; i < c.Int("frames"); i++ {
				n, err := enc.Encode(src, dst)
				if err != nil {
					return fmt.Errorf("encode frame %d: %w", i, err)
				}
				logrus.WithFields(logrus.Fields{
					"frame": i,
					"bytes": n,
				}).Debug("frame encoded")
			}

			stats, err := enc.Stats()
			if err != nil {
				return err
			}
			fmt.Printf("encoded %d frames, %d bytes total\n",
				stats.FramesEncoded, stats.BytesEncoded)
			return nil
		},
	}
}

func decodeCommand() *cli.Command {
	return &cli.Command{
		Name:      "decode",
		Usage:     "decode an MJPEG file to NV12",
		ArgsUsage: "FILE",
		Flags:     sessionFlags(),
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return fmt.Errorf("expected exactly one MJPEG input file")
			}
			jpeg, err := os.ReadFile(c.Args().First())
			if err != nil {
				return err
			}

			cfg, err := loadConfig(c)
			if err != nil {
				return err
			}

			dec, err := mjpeg.NewDecoder(cfg.Decoder, backendOptions(c)...)
			if err != nil {
				return fmt.Errorf("create decoder: %w", err)
			}
			defer dec.Close()

			nv12 := make([]byte, dec.MaxFrameSize())
			n, info, err := dec.Decode(jpeg, nv12)
			if err != nil {
				return fmt.Errorf("decode: %w", err)
			}
			fmt.Printf("decoded %dx%d %s frame, %d bytes\n",
				info.Width, info.Height, info.Format, n)
			return nil
		},
	}
}

func roundtripCommand() *cli.Command {
	return &cli.Command{
		Name:  "roundtrip",
		Usage: "encode synthetic frames and decode them back",
		Flags: sessionFlags(),
		Action: func(c *cli.Context) error {
			cfg, err := loadConfig(c)
			if err != nil {
				return err
			}

			opts := backendOptions(c)
			enc, err := mjpeg.NewEncoder(cfg.Encoder, opts...)
			if err != nil {
				return fmt.Errorf("create encoder: %w", err)
			}
			defer enc.Close()

			dec, err := mjpeg.NewDecoder(cfg.Decoder, opts...)
			if err != nil {
				return fmt.Errorf("create decoder: %w", err)
			}
			defer dec.Close()

			src := testPattern(enc.FrameSize())
			jpeg := make([]byte, enc.FrameSize())
			nv12 := make([]byte, dec.MaxFrameSize())

			for i := 0; i < c.Int("frames"); i++ {
				n, err := enc.Encode(src, jpeg)
				if err != nil {
					return fmt.Errorf("encode frame %d: %w", i, err)
				}
				m, info, err := dec.Decode(jpeg[:n], nv12)
				if err != nil {
					return fmt.Errorf("decode frame %d: %w", i, err)
				}
				logrus.WithFields(logrus.Fields{
					"frame":  i,
					"jpeg":   n,
					"nv12":   m,
					"width":  info.Width,
					"height": info.Height,
				}).Debug("roundtrip frame")
			}

			encStats, err := enc.Stats()
			if err != nil {
				return err
			}
			decStats, err := dec.Stats()
			if err != nil {
				return err
			}
			fmt.Printf("roundtrip complete: %d frames encoded (%d bytes), %d frames decoded (%d bytes)\n",
				encStats.FramesEncoded, encStats.BytesEncoded,
				decStats.FramesDecoded, decStats.BytesDecoded)
			return nil
		},
	}
}

// testPattern fills an NV12 buffer with a gradient luma plane and neutral
// chroma.
func testPattern(size int) []byte {
	buf := make([]byte, size)
	lumaLen := size * 2 / 3
	for i := 0; i < lumaLen; i++ {
		buf[i] = byte(i % 256)
	}
	for i := lumaLen; i < size; i++ {
		buf[i] = 128
	}
	return buf
}
