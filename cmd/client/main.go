package main

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"log"
	"net"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/urfave/cli"
)

// VERSION is injected by buildflags.
var VERSION = "SELFBUILD"

const maxThreads = 128

func main() {
	if VERSION == "SELFBUILD" {
		log.SetFlags(log.LstdFlags | log.Lshortfile)
	}

	myApp := cli.NewApp()
	myApp.Name = "client"
	myApp.Usage = "synthetic tuple sender for the sketch ingest server"
	myApp.Version = VERSION
	myApp.Flags = []cli.Flag{
		cli.Uint64Flag{
			Name:  "tuples,t",
			Usage: "total number of tuples to send, split across --threads connections",
		},
		cli.IntFlag{
			Name:  "repetitions,r",
			Value: 1,
			Usage: "number of times each connection resends its share",
		},
		cli.StringFlag{
			Name:  "address",
			Usage: "server ip address",
		},
		cli.IntFlag{
			Name:  "threads",
			Value: maxThreads,
			Usage: "number of TCP connections to open",
		},
		cli.StringFlag{
			Name:  "datafile,f",
			Usage: "text file of whitespace-separated decimal u32s to send instead of synthetic sequential data",
		},
	}
	myApp.Action = func(c *cli.Context) error {
		if !c.IsSet("tuples") {
			log.Println("tuples (-t) is required")
			os.Exit(1)
		}
		if !c.IsSet("address") {
			log.Println("address is required")
			os.Exit(1)
		}

		sizeInTuples := c.Uint64("tuples")
		repetitions := c.Int("repetitions")
		addr := c.String("address")
		threads := c.Int("threads")
		if threads < 1 || threads > maxThreads {
			threads = maxThreads
		}
		datafile := c.String("datafile")

		sizePerConn := sizeInTuples / uint64(threads)

		log.Println("threads:", threads)
		log.Println("tuples:", sizeInTuples*uint64(repetitions))
		log.Println("tuples per connection:", sizePerConn)
		log.Println("transfer size [GB]:", float64(sizePerConn*4*uint64(threads)*uint64(repetitions))/1e9)
		log.Println("server address:", addr)

		var data []uint32
		var err error
		if datafile != "" {
			data, err = fillFromFile(datafile, sizePerConn)
		} else {
			data = fillSequential(sizePerConn)
		}
		if err != nil {
			log.Printf("%+v\n", err)
			os.Exit(1)
		}

		conns := make([]net.Conn, threads)
		for i := 0; i < threads; i++ {
			conn, err := net.Dial("tcp", fmt.Sprintf("%s:5017", addr))
			if err != nil {
				log.Printf("connection %d: %+v\n", i, err)
				os.Exit(1)
			}
			if tcpConn, ok := conn.(*net.TCPConn); ok {
				if err := tcpConn.SetNoDelay(true); err != nil {
					log.Println("SetNoDelay:", err)
				}
			}
			conns[i] = conn
		}

		start := time.Now()
		var wg sync.WaitGroup
		for i := 0; i < threads; i++ {
			wg.Add(1)
			go func(conn net.Conn) {
				defer wg.Done()
				sendRepeatedly(conn, data, repetitions)
			}(conns[i])
		}
		wg.Wait()
		duration := time.Since(start)

		for _, conn := range conns {
			conn.Close()
		}

		transferBytes := sizePerConn * 4 * uint64(threads) * uint64(repetitions)
		log.Println("duration [s]:", duration.Seconds())
		fmt.Println(float64(transferBytes) / duration.Seconds() / 1e9)
		return nil
	}
	if err := myApp.Run(os.Args); err != nil {
		log.Printf("%+v\n", err)
		os.Exit(1)
	}
}

// fillSequential generates n locally, the synthetic data the reference
// uses in place of its commented-out file loader: each connection's share
// is just 0..n-1.
func fillSequential(n uint64) []uint32 {
	data := make([]uint32, n)
	for i := range data {
		data[i] = uint32(i)
	}
	return data
}

// fillFromFile reads whitespace-separated decimal u32s from path, looping
// back to the start of the file as needed until n values have been read.
func fillFromFile(path string, n uint64) ([]uint32, error) {
	data := make([]uint32, 0, n)
	for uint64(len(data)) < n {
		if err := func() error {
			f, err := os.Open(path)
			if err != nil {
				return err
			}
			defer f.Close()

			scanner := bufio.NewScanner(f)
			scanner.Split(bufio.ScanWords)
			for uint64(len(data)) < n && scanner.Scan() {
				v, err := strconv.ParseUint(scanner.Text(), 10, 32)
				if err != nil {
					return err
				}
				data = append(data, uint32(v))
			}
			return scanner.Err()
		}(); err != nil {
			return nil, err
		}
		if len(data) == 0 {
			return nil, fmt.Errorf("datafile %q contains no values", path)
		}
	}
	return data, nil
}

// sendRepeatedly writes data to conn repetitions times sequentially,
// mirroring the reference's call_from_thread write loop.
func sendRepeatedly(conn net.Conn, data []uint32, repetitions int) {
	buf := make([]byte, 4*len(data))
	for i, v := range data {
		binary.LittleEndian.PutUint32(buf[4*i:], v)
	}
	for r := 0; r < repetitions; r++ {
		cnt := 0
		for cnt < len(buf) {
			n, err := conn.Write(buf[cnt:])
			if err != nil {
				log.Println("write error:", err)
				return
			}
			cnt += n
		}
	}
}
