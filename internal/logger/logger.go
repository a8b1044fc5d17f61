// Package logger is an asynchronous leveled logger. Callers format with
// printf verbs; a single goroutine renders and writes the lines.
package logger

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

const (
	DEBUG = iota
	INFO
	WARN
	ERROR
)

var levelNames = map[int][]byte{
	DEBUG: []byte("DEBUG"),
	INFO:  []byte("INFO"),
	WARN:  []byte("WARN"),
	ERROR: []byte("ERROR"),
}

// ParseLogLevel maps a level name to its constant.
func ParseLogLevel(level string) (int, error) {
	switch strings.ToUpper(level) {
	case "DEBUG", "":
		return DEBUG, nil
	case "INFO":
		return INFO, nil
	case "WARN":
		return WARN, nil
	case "ERROR":
		return ERROR, nil
	}
	return DEBUG, fmt.Errorf("unknown log level: %v", level)
}

var (
	leftBracket  = []byte("[")
	rightBracket = []byte("]")
	space        = []byte(" ")
	colon        = []byte(":")
	funcBracket  = []byte("()")
	lineFeed     = []byte("\n")
)

var (
	red     = []byte{27, 91, 51, 49, 109}
	green   = []byte{27, 91, 51, 50, 109}
	yellow  = []byte{27, 91, 51, 51, 109}
	blue    = []byte{27, 91, 51, 52, 109}
	magenta = []byte{27, 91, 51, 53, 109}
	cyan    = []byte{27, 91, 51, 54, 109}
	reset   = []byte{27, 91, 48, 109}
)

const (
	DefaultFileMaxSize = 10485760
	logInfoChanSize    = 1000
	maxWriteCacheNum   = 1000
)

type Config struct {
	AppName      string
	Level        int
	TrackLine    bool
	EnableFile   bool
	FileDir      string
	FileMaxSize  int64
	DisableColor bool
	// Output replaces stderr as the console sink.
	Output io.Writer
}

type logInfo struct {
	time      time.Time
	level     int
	msg       []byte
	fileName  string
	funcName  string
	line      int
	trackLine bool
}

type logger struct {
	conf      Config
	infoChan  chan *logInfo
	writeBuf  []byte
	cacheNum  int
	file      *os.File
	closeChan chan struct{}
	doneChan  chan struct{}
}

var current atomic.Pointer[logger]

// InitLogger starts the writer goroutine. A nil config logs everything to
// stderr with line tracking. Lines logged before InitLogger are dropped.
func InitLogger(config *Config) {
	conf := Config{AppName: "navmesh2d", Level: DEBUG, TrackLine: true}
	if config != nil {
		conf = *config
	}
	if conf.FileMaxSize == 0 {
		conf.FileMaxSize = DefaultFileMaxSize
	}
	if conf.FileDir == "" {
		conf.FileDir = "./log"
	}
	if conf.Output == nil {
		conf.Output = os.Stderr
	}
	l := &logger{
		conf:      conf,
		infoChan:  make(chan *logInfo, logInfoChanSize),
		closeChan: make(chan struct{}),
		doneChan:  make(chan struct{}),
	}
	if old := current.Swap(l); old != nil {
		old.close()
	}
	go l.doLog()
}

// CloseLogger flushes pending lines and stops the writer.
func CloseLogger() {
	if l := current.Swap(nil); l != nil {
		l.close()
	}
}

func (l *logger) close() {
	close(l.closeChan)
	<-l.doneChan
}

func (l *logger) doLog() {
	defer close(l.doneChan)
	var buf bytes.Buffer
	for {
		select {
		case info := <-l.infoChan:
			l.render(&buf, info)
		case <-l.closeChan:
			for {
				select {
				case info := <-l.infoChan:
					l.render(&buf, info)
				default:
					l.flush()
					if l.file != nil {
						_ = l.file.Close()
					}
					return
				}
			}
		}
	}
}

func (l *logger) render(buf *bytes.Buffer, info *logInfo) {
	color := !l.conf.DisableColor
	if color {
		buf.Write(cyan)
	}
	buf.Write(leftBracket)
	buf.WriteString(info.time.Format("2006-01-02 15:04:05.000"))
	buf.Write(rightBracket)
	if color {
		buf.Write(reset)
	}
	buf.Write(space)

	if color {
		switch info.level {
		case DEBUG:
			buf.Write(blue)
		case INFO:
			buf.Write(green)
		case WARN:
			buf.Write(yellow)
		case ERROR:
			buf.Write(red)
		}
	}
	buf.Write(leftBracket)
	buf.Write(levelNames[info.level])
	buf.Write(rightBracket)
	if color {
		buf.Write(reset)
	}
	buf.Write(space)

	if color && info.level == ERROR {
		buf.Write(red)
		buf.Write(info.msg)
		buf.Write(reset)
	} else {
		buf.Write(info.msg)
	}

	if info.trackLine {
		buf.Write(space)
		if color {
			buf.Write(magenta)
		}
		buf.Write(leftBracket)
		buf.WriteString(info.fileName)
		buf.Write(colon)
		buf.WriteString(strconv.Itoa(info.line))
		buf.Write(space)
		buf.WriteString(info.funcName)
		buf.Write(funcBracket)
		buf.Write(rightBracket)
		if color {
			buf.Write(reset)
		}
	}
	buf.Write(lineFeed)

	l.writeBuf = append(l.writeBuf, buf.Bytes()...)
	l.cacheNum++
	buf.Reset()
	infoPool.Put(info)
	if len(l.infoChan) != 0 && l.cacheNum < maxWriteCacheNum {
		return
	}
	l.flush()
}

func (l *logger) flush() {
	if len(l.writeBuf) == 0 {
		return
	}
	_, _ = l.conf.Output.Write(l.writeBuf)
	if l.conf.EnableFile {
		l.writeFile(l.writeBuf)
	}
	l.writeBuf = l.writeBuf[:0]
	l.cacheNum = 0
}

func (l *logger) writeFile(data []byte) {
	name := filepath.Join(l.conf.FileDir, l.conf.AppName+".log")
	if l.file == nil {
		if err := os.MkdirAll(l.conf.FileDir, 0o755); err != nil {
			l.stderr("create log dir error: %v", err)
			return
		}
		f, err := os.OpenFile(name, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			l.stderr("open log file error: %v", err)
			return
		}
		l.file = f
	}
	stat, err := l.file.Stat()
	if err != nil {
		l.stderr("get log file stat error: %v", err)
		return
	}
	if stat.Size() >= l.conf.FileMaxSize {
		if err := l.file.Close(); err != nil {
			l.stderr("close old log file error: %v", err)
		}
		l.file = nil
		rotated := name + "." + time.Now().Format("20060102150405") + ".log"
		if err := os.Rename(name, rotated); err != nil {
			l.stderr("rename old log file error: %v", err)
			return
		}
		f, err := os.OpenFile(name, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			l.stderr("open new log file error: %v", err)
			return
		}
		l.file = f
	}
	if _, err := l.file.Write(data); err != nil {
		l.stderr("write log file error: %v", err)
	}
}

func (l *logger) stderr(format string, args ...any) {
	_, _ = fmt.Fprintf(os.Stderr, string(red)+format+"\n"+string(reset), args...)
}

var infoPool = sync.Pool{New: func() any { return new(logInfo) }}

func formatLog(l *logger, level int, msg string, param []any) {
	info := infoPool.Get().(*logInfo)
	info.time = time.Now()
	info.level = level
	info.msg = fmt.Appendf(info.msg[:0], msg, param...)
	info.trackLine = l.conf.TrackLine
	if info.trackLine {
		info.fileName, info.line, info.funcName = getLineFunc()
	}
	select {
	case l.infoChan <- info:
	case <-l.closeChan:
	}
}

func enabled(level int) *logger {
	l := current.Load()
	if l == nil || l.conf.Level > level {
		return nil
	}
	return l
}

func Debug(msg string, param ...any) {
	if l := enabled(DEBUG); l != nil {
		formatLog(l, DEBUG, msg, param)
	}
}

func Info(msg string, param ...any) {
	if l := enabled(INFO); l != nil {
		formatLog(l, INFO, msg, param)
	}
}

func Warn(msg string, param ...any) {
	if l := enabled(WARN); l != nil {
		formatLog(l, WARN, msg, param)
	}
}

func Error(msg string, param ...any) {
	if l := enabled(ERROR); l != nil {
		formatLog(l, ERROR, msg, param)
	}
}

// getLineFunc reports the caller of Debug/Info/Warn/Error.
func getLineFunc() (fileName string, line int, funcName string) {
	pc, file, line, ok := runtime.Caller(3)
	if !ok {
		return "???", -1, "???"
	}
	fileName = path.Base(file)
	funcName = runtime.FuncForPC(pc).Name()
	if i := strings.LastIndexByte(funcName, '.'); i >= 0 {
		funcName = funcName[i+1:]
	}
	return fileName, line, funcName
}
