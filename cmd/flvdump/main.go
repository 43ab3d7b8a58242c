// If you are AI: This is a command-line tool that demuxes one FLV source and prints every sample.
// Output is one JSON object per sample on stdout; diagnostics go to stderr.

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/rs/zerolog"

	"flvstream/internal/core/protocol/flv"
	"flvstream/internal/logging"
	"flvstream/internal/svc/ingest"
)

// main parses flags and runs the dump.
func main() {
	cacheSize := flag.Int("cache", flv.DefaultCacheSize, "Stream cache size in bytes")
	chunkSize := flag.Int("chunk", 64*1024, "Bytes read per Feed")
	level := flag.String("log-level", "warn", "Diagnostic log level")
	skip := flag.Bool("skip-frames", false, "Parse without emitting audio or video")
	seek := flag.Bool("seek", false, "Drop packets until the first video keyframe")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [flags] <file|url>\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 1 || *chunkSize <= 0 {
		flag.Usage()
		os.Exit(2)
	}

	log := logging.New(*level, "console", os.Stderr)
	out := zerolog.New(os.Stdout)

	if err := dump(flag.Arg(0), *cacheSize, *chunkSize, *skip, *seek, out, log); err != nil {
		log.Error().Err(err).Msg("dump failed")
		os.Exit(1)
	}
}

// dump demuxes src and writes one record per sample followed by a summary.
func dump(src string, cacheSize, chunkSize int, skip, seek bool, out, log zerolog.Logger) error {
	r, err := ingest.Open(context.Background(), http.DefaultClient, src)
	if err != nil {
		return err
	}
	defer r.Close()

	counts := make(map[flv.SampleKind]int)
	d := flv.NewDemuxer(flv.HandlerFunc(func(s flv.Sample) {
		counts[s.Kind]++
		ev := out.Log().
			Str("kind", s.Kind.String()).
			Int("size", len(s.Payload)).
			Uint32("flags", s.Flags)
		if s.DTS != flv.NoTimestamp {
			ev = ev.Int64("dts", s.DTS)
		}
		if s.PTS != flv.NoTimestamp {
			ev = ev.Int64("pts", s.PTS)
		}
		if s.IsKeyframe() {
			ev = ev.Bool("keyframe", true)
		}
		if s.Encrypted {
			ev = ev.Bool("encrypted", true)
		}
		ev.Send()
	}), flv.WithCacheSize(cacheSize), flv.WithLogger(log))
	defer d.Close()

	d.SetSkipFrames(skip)
	if seek {
		d.SeekToNextKeyframe()
	}

	buf := make([]byte, chunkSize)
	for d.Running() {
		n, readErr := r.Read(buf)
		if n > 0 {
			if err := d.Feed(buf[:n]); err != nil {
				return err
			}
		}
		if errors.Is(readErr, io.EOF) {
			break
		}
		if readErr != nil {
			return readErr
		}
	}

	_, end := d.StreamOffsets()
	out.Log().
		Str("kind", "summary").
		Int64("bytes", end).
		Uint64("frames", d.FrameCount()).
		Bool("wrong_dts", d.WrongDTS()).
		Str("state", d.State().String()).
		Int("video_packets", counts[flv.SampleVideoPacket]).
		Int("audio_packets", counts[flv.SampleAudioPacket]).
		Send()
	return nil
}
