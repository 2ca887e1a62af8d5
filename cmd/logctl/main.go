// Command logctl drives the storage engine directly against a
// directory on disk: append a value, read a record back by offset,
// print the lowest/highest offsets, or truncate a prefix. It exists to
// exercise internal/log end to end without standing up a server.
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	api "github.com/NguyenLe1605/proglog/api/v1"
	"github.com/NguyenLe1605/proglog/internal/config"
	"github.com/NguyenLe1605/proglog/internal/log"
	"go.uber.org/zap"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "logctl:", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	fs := flag.NewFlagSet("logctl", flag.ExitOnError)
	dir := fs.String("dir", ".", "log directory")
	configPath := fs.String("config", "", "optional YAML file with segment sizing")
	if err := fs.Parse(args); err != nil {
		return err
	}

	rest := fs.Args()
	if len(rest) == 0 {
		return errors.New("usage: logctl [-dir DIR] [-config FILE] <append|read|stat|truncate> ...")
	}

	logger, err := zap.NewDevelopment()
	if err != nil {
		return err
	}
	zap.ReplaceGlobals(logger)
	defer logger.Sync()

	c, err := loadConfig(*configPath)
	if err != nil {
		return err
	}

	l, err := log.NewLog(*dir, c, api.BinaryCodec{})
	if err != nil {
		return err
	}
	defer l.Close()

	switch rest[0] {
	case "append":
		return runAppend(l, rest[1:])
	case "read":
		return runRead(l, rest[1:])
	case "stat":
		return runStat(l)
	case "truncate":
		return runTruncate(l, rest[1:])
	default:
		return fmt.Errorf("unknown subcommand %q", rest[0])
	}
}

func loadConfig(path string) (log.Config, error) {
	if path == "" {
		return log.Config{}, nil
	}

	loaded, err := config.Load(path)
	if err != nil {
		return log.Config{}, err
	}

	var c log.Config
	c.Segment.MaxStoreBytes = loaded.Segment.MaxStoreBytes
	c.Segment.MaxIndexBytes = loaded.Segment.MaxIndexBytes
	c.Segment.InitialOffset = loaded.Segment.InitialOffset
	return c, nil
}

func runAppend(l *log.Log, args []string) error {
	if len(args) != 1 {
		return errors.New("usage: logctl append <value>")
	}

	off, err := l.Append(&api.Record{Value: []byte(args[0])})
	if err != nil {
		return err
	}

	fmt.Println(off)
	return nil
}

func runRead(l *log.Log, args []string) error {
	if len(args) != 1 {
		return errors.New("usage: logctl read <offset>")
	}

	var off uint64
	if _, err := fmt.Sscanf(args[0], "%d", &off); err != nil {
		return fmt.Errorf("invalid offset %q: %w", args[0], err)
	}

	record, err := l.Read(off)
	if err != nil {
		return err
	}

	fmt.Println(string(record.Value))
	return nil
}

func runStat(l *log.Log) error {
	lowest, err := l.LowestOffset()
	if err != nil {
		return err
	}

	highest, err := l.HighestOffset()
	if err != nil {
		return err
	}

	fmt.Printf("lowest=%d highest=%d\n", lowest, highest)
	return nil
}

func runTruncate(l *log.Log, args []string) error {
	if len(args) != 1 {
		return errors.New("usage: logctl truncate <offset>")
	}

	var off uint64
	if _, err := fmt.Sscanf(args[0], "%d", &off); err != nil {
		return fmt.Errorf("invalid offset %q: %w", args[0], err)
	}

	return l.Truncate(off)
}
