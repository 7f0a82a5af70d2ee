// Package statlog periodically appends a CSV row of a running counter to a
// date-stamped log file, adapted from the reference's snmplog ticker (which
// sampled KCP session counters) to sample ingest throughput instead.
package statlog

import (
	"context"
	"encoding/csv"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"
)

// Sampler returns the current value of the counter being logged.
type Sampler func() uint64

// Run samples every interval and appends "<unix>,<value>" to path, creating
// the file (with a header row) if absent. path is passed through
// time.Now().Format on its filename component each tick, so a caller can use
// a rotating name such as "./statlog-20060102.csv". Run returns once ctx is
// done. A zero path or interval disables logging entirely.
func Run(ctx context.Context, path string, interval time.Duration, sample Sampler) {
	if path == "" || interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			logdir, logfile := filepath.Split(path)
			f, err := os.OpenFile(logdir+time.Now().Format(logfile), os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
			if err != nil {
				log.Println("statlog:", err)
				return
			}
			w := csv.NewWriter(f)
			if stat, err := f.Stat(); err == nil && stat.Size() == 0 {
				if err := w.Write([]string{"Unix", "ItemCount"}); err != nil {
					log.Println("statlog:", err)
				}
			}
			if err := w.Write([]string{fmt.Sprint(time.Now().Unix()), fmt.Sprint(sample())}); err != nil {
				log.Println("statlog:", err)
			}
			w.Flush()
			f.Close()
		}
	}
}
