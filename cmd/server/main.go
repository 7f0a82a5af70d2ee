package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/urfave/cli"

	"github.com/xtaci/sktun/hashkind"
	"github.com/xtaci/sktun/ingest"
	"github.com/xtaci/sktun/internal/statlog"
	"github.com/xtaci/sktun/sketch"
)

// VERSION is injected by buildflags.
var VERSION = "SELFBUILD"

func main() {
	if VERSION == "SELFBUILD" {
		log.SetFlags(log.LstdFlags | log.Lshortfile)
	}

	myApp := cli.NewApp()
	myApp.Name = "server"
	myApp.Usage = "probabilistic sketch ingest server"
	myApp.Version = VERSION
	myApp.ArgsUsage = "<HASH> <threads>[x<collectors>]"
	myApp.Flags = []cli.Flag{
		cli.StringFlag{
			Name:  "addr",
			Value: ingest.DefaultAddr,
			Usage: "listen address",
		},
		cli.StringFlag{
			Name:  "statlog",
			Value: "",
			Usage: "collect item-count samples to file, aware of Go's time format, like: ./statlog-20060102.csv",
		},
		cli.IntFlag{
			Name:  "statperiod",
			Value: 60,
			Usage: "statlog sample period, in seconds",
		},
		cli.StringFlag{
			Name:  "c",
			Value: "",
			Usage: "config from json file, which will override command line arguments",
		},
	}
	myApp.Action = func(c *cli.Context) error {
		hashArg := c.Args().Get(0)
		threadsArg := c.Args().Get(1)
		if hashArg == "" || threadsArg == "" {
			fmt.Fprintln(os.Stderr, color.RedString("missing arguments, expected: server %s", c.App.ArgsUsage))
			os.Exit(1)
		}

		kind, ok := hashkind.Parse(hashArg)
		if !ok {
			fmt.Fprintln(os.Stderr, color.RedString("unknown hash kind %q", hashArg))
			os.Exit(1)
		}

		threads, mulCollectors, err := parseThreadsArg(threadsArg)
		if err != nil {
			fmt.Fprintln(os.Stderr, color.RedString("%v", err))
			os.Exit(1)
		}

		config := Config{
			Addr:       c.String("addr"),
			StatLog:    c.String("statlog"),
			StatPeriod: c.Int("statperiod"),
		}
		if path := c.String("c"); path != "" {
			if err := parseJSONConfig(&config, path); err != nil {
				checkError(err)
			}
		}

		log.Println("version:", VERSION)
		log.Println("hash:", kind)
		log.Println("threads:", threads, "collectors per thread:", mulCollectors)
		log.Println("listen address:", config.Addr)
		log.Println("statlog:", config.StatLog)
		log.Println("statperiod:", config.StatPeriod)

		srv, err := ingest.NewServer(ingest.Params{
			Kind:          kind,
			Threads:       threads,
			MulCollectors: mulCollectors,
			Geometry:      sketch.ReferenceGeometry,
			Addr:          config.Addr,
		})
		if err != nil {
			checkError(err)
		}
		if err := srv.Listen(); err != nil {
			checkError(err)
		}

		ctx, cancel := context.WithCancel(context.Background())
		go statlog.Run(ctx, config.StatLog, time.Duration(config.StatPeriod)*time.Second, srv.ItemCount)

		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt)
		go func() {
			<-sig
			log.Println("received interrupt, closing listener")
			cancel()
		}()

		result, err := srv.Run(ctx)
		cancel()
		if err != nil {
			checkError(err)
		}

		fmt.Println(result.ItemCount)
		fmt.Println(result.CollectThroughputGBs)
		fmt.Println(result.TotalThroughputGBs)
		fmt.Println(result.Cardinality)
		return nil
	}
	if err := myApp.Run(os.Args); err != nil {
		checkError(err)
	}
}

// parseThreadsArg parses "<threads>" or "<threads>x<collectors>", defaulting
// collectors to 4 when the "x<collectors>" suffix is absent.
func parseThreadsArg(arg string) (threads, mulCollectors int, err error) {
	mulCollectors = 4
	parts := strings.SplitN(arg, "x", 2)
	threads, err = strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, fmt.Errorf("invalid threads value %q", parts[0])
	}
	if len(parts) == 2 {
		mulCollectors, err = strconv.Atoi(parts[1])
		if err != nil {
			return 0, 0, fmt.Errorf("invalid collectors value %q", parts[1])
		}
	}
	return threads, mulCollectors, nil
}

func checkError(err error) {
	if err != nil {
		log.Printf("%+v\n", err)
		os.Exit(1)
	}
}
