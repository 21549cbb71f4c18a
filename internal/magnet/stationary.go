package magnet

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/san-kum/simstats/internal/table"
)

// MarkStationary rewrites the stationary column of a magnetization file:
// 1 for rows with mcs >= step, 0 otherwise. The header and any comment
// lines are kept. It returns the number of rows marked stationary.
func MarkStationary(path string, step int) (int, error) {
	in, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer in.Close()
	info, err := in.Stat()
	if err != nil {
		return 0, err
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*")
	if err != nil {
		return 0, err
	}
	defer os.Remove(tmp.Name())
	defer tmp.Close()

	w := bufio.NewWriter(tmp)
	sc := bufio.NewScanner(in)
	marked := 0
	header := true
	line := 0
	for sc.Scan() {
		line++
		text := sc.Text()
		trimmed := strings.TrimSpace(text)
		if header || trimmed == "" || strings.HasPrefix(trimmed, "#") {
			if trimmed != "" && !strings.HasPrefix(trimmed, "#") {
				header = false
			}
			fmt.Fprintln(w, text)
			continue
		}

		fields := strings.Fields(trimmed)
		if len(fields) < 4 {
			fmt.Fprintln(w, text)
			continue
		}
		mcs, err := table.ParseField(fields[0])
		if err != nil {
			return 0, &table.LineError{Path: path, Line: line, Err: err}
		}
		flag := "0"
		if mcs >= float64(step) {
			flag = "1"
			marked++
		}
		fields[3] = flag
		fmt.Fprintln(w, strings.Join(fields, "\t"))
	}
	if err := sc.Err(); err != nil {
		return 0, err
	}
	if err := w.Flush(); err != nil {
		return 0, err
	}
	if err := tmp.Chmod(info.Mode().Perm()); err != nil {
		return 0, err
	}
	if err := tmp.Close(); err != nil {
		return 0, err
	}
	in.Close()
	return marked, os.Rename(tmp.Name(), path)
}
