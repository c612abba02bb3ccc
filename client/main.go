package main

import (
	"encoding/hex"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/akamensky/argparse"

	"go_tftp/client/comms"
	"go_tftp/config"
	"go_tftp/constants"
	"go_tftp/fileio"
	"go_tftp/logging"
	"go_tftp/metrics"
	"go_tftp/networking"
)

func main() {
	args := argparse.NewParser("client", constants.Title)

	bind := args.String("a", "address", &argparse.Options{Required: false, Help: "Server host address"})
	cfgPath := args.String("c", "config", &argparse.Options{Required: false, Help: "TOML config file"})
	dscp := args.Int("d", "dscp", &argparse.Options{Required: false, Help: "DSCP field for QoS (default " +
		strconv.Itoa(constants.DEFAULT_DSCP) + ")", Default: -1})
	file := args.String("f", "file", &argparse.Options{Required: true, Help: "Remote file name"})
	linger := args.Int("g", "linger", &argparse.Options{Required: false, Help: "Times to re-ack a retransmitted final block; a quiet receive window ends the transfer, 0 stops after the final ack (default " +
		strconv.Itoa(constants.DEFAULT_LINGER) + ")", Default: -1})
	metricsFile := args.String("m", "metrics", &argparse.Options{Required: false, Help: "Write Prometheus textfile metrics to path"})
	output := args.String("o", "output", &argparse.Options{Required: false, Help: "Local file path"})
	port := args.Int("p", "port", &argparse.Options{Required: false, Help: "Server port (default " +
		strconv.Itoa(constants.DEFAULT_PORT) + ")", Default: -1})
	retries := args.Int("r", "retries", &argparse.Options{Required: false, Help: "Ack re-sends when the next block times out (default " +
		strconv.Itoa(constants.DEFAULT_ACK_RETRY) + ")", Default: -1})
	sha := args.Flag("s", "sha", &argparse.Options{Help: "Use SHA256 checksum instead of CRC32"})
	level := args.String("v", "verbosity", &argparse.Options{Required: false, Help: "Log level (debug, info, warn, error)"})
	timeout := args.Int("w", "wait", &argparse.Options{Required: false, Help: "Receive timeout in ms (default " +
		strconv.Itoa(constants.DEFAULT_TIMEOUT_MS) + ")", Default: -1})
	lz4 := args.Flag("z", "lz4", &argparse.Options{Help: "Store received file LZ4 compressed"})

	err := args.Parse(os.Args)

	if err != nil {
		fmt.Print(args.Usage(err))
		os.Exit(1)
	}

	cfg := config.Default()
	if *cfgPath != "" {
		cfg, err = config.Load(*cfgPath)
		if err != nil {
			fmt.Println(err.Error())
			os.Exit(1)
		}
	}

	cfg = mergeFlags(cfg, flagValues{
		address:   *bind,
		port:      *port,
		timeoutMS: *timeout,
		retries:   *retries,
		linger:    *linger,
		dscp:      *dscp,
		lz4:       *lz4,
		sha:       *sha,
		logLevel:  *level,
		metrics:   *metricsFile,
	})

	if cfg.Server == "" {
		fmt.Println("Server address required (-a or config file)")
		os.Exit(1)
	}

	log := logging.New("tftp", cfg.LogLevel, os.Stderr)
	stats := metrics.NewTransfer()

	transport, err := networking.ListenUDP("", cfg.Timeout, cfg.DSCP)
	if err != nil {
		fmt.Println(err.Error())
		os.Exit(1)
	}
	defer transport.Close()

	client := comms.NewClient(transport, log, comms.Options{
		AckRetries: cfg.AckRetries,
		Linger:     cfg.Linger,
		Metrics:    stats,
	})

	fmt.Println("Requesting", *file, "from", cfg.Server+":"+strconv.Itoa(cfg.Port))
	begin := time.Now()

	result, err := client.Read(*file, cfg.Server, cfg.Port)
	if err != nil {
		fmt.Println("Lost connection:", err.Error())
		transport.Close()
		os.Exit(3)
	}

	writeMetrics(stats, cfg.Metrics)

	if !result.Success() {
		if result.ServerError != nil {
			fmt.Println("Server error", result.ServerError.String())
		}
		fmt.Println("Transfer failed:", result.Failure)
		transport.Close()
		os.Exit(1)
	}

	fmt.Println("Received", len(result.Payload), "bytes in", result.Blocks, "blocks",
		"("+strconv.Itoa(result.Duplicates)+" duplicates) in", time.Since(begin))

	// Persist only once the whole file has arrived.
	path := outputPath(cfg, *file, *output)
	done := fileio.WriteChunks(fileio.NewFactory(cfg.Compress), path, result.Chunks,
		constants.DEFAULT_WRITE_BUF*1024, cfg.SHA256)
	if done.Err != nil {
		fmt.Println(done.Err.Error())
		transport.Close()
		os.Exit(1)
	}

	fmt.Println("Saved", path)
	fmt.Println("Checksum", hex.EncodeToString(done.Checksum))
}

// writeMetrics dumps counters if a metrics file was requested
func writeMetrics(stats *metrics.Transfer, path string) {
	if path == "" {
		return
	}
	if err := stats.WriteTextfile(path); err != nil {
		fmt.Println(err.Error())
	}
}
