package main

import (
	"bufio"
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"

	"gander/uci"
)

// thinkTick is how often the pump grants the search a slice while lines
// are not arriving; the same cadence the browser host uses.
const thinkTick = 10 * time.Millisecond

func main() {
	banner()

	lines := make(chan string)
	go func() {
		scanner := bufio.NewScanner(os.Stdin)
		scanner.Buffer(make([]byte, 0, 4096), 1<<20)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
		close(lines)
	}()

	u := uci.New()
	ticker := time.NewTicker(thinkTick)
	defer ticker.Stop()

	for {
		select {
		case line, ok := <-lines:
			if !ok {
				return
			}
			printOut(u.HandleLine(line))
			if u.Quit() {
				return
			}
		case <-ticker.C:
			printOut(u.Think())
		}
	}
}

func printOut(text string) {
	if text == "" {
		return
	}
	fmt.Println(text)
}

func banner() {
	title := color.New(color.FgGreen, color.Bold)
	dim := color.New(color.Faint)
	title.Fprintln(os.Stderr, uci.Name)
	dim.Fprintln(os.Stderr, "uci ready; type 'uci' to begin")
}
