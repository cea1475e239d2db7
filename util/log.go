package util
import (
	"os"
	"io"
	"sync"
	"time"
	"errors"
	"io/fs"
	"pixhide/cryptography"
)

/*
 * a custom logger. Writes to stderr, to a plain file or to a file encrypted
 * with a key derived from "<base64 salt>:<password>".
 */
const (
	Error = 1
	Warning = 2
	Info = 4

	RedColor = "\033[31m"
	YellowColor = "\033[33m"
	GreenColor = "\033[32m"
	CyanColor = "\033[36m"
	BlueColor = "\033[34m"
	MagentaColor = "\033[35m"
	ResetColor = "\033[0m"
)

type LoggerInfo struct {
	Filename	string		`yaml:"filename"`	// empty means stderr
	Password	string		`yaml:"password"`
	IsEncrypted	bool		`yaml:"is_encrypted"`
	IsColored	bool		`yaml:"is_colored"`
	SaveTime	bool		`yaml:"save_time"`
	Mode		uint8		`yaml:"mode"`
}

type Logger struct {
	li		*LoggerInfo
	out		io.Writer	// used when there is no file
	key		[]byte		// derived once for encrypted logs
	mtx		sync.Mutex
}

func NewLogger( li *LoggerInfo ) *Logger {
	return &Logger{
		li: li,
		out: os.Stderr,
	}
}

// logger which writes into w instead of a file
func NewWriterLogger( li *LoggerInfo, w io.Writer ) *Logger {
	l := NewLogger( li )
	l.out = w
	return l
}

func(l *Logger) colorize( line string, color string ) string {
	if l.li.IsColored {
		return color + line + ResetColor
	}
	return line
}

func(l *Logger) prepareString( str string, clr string ) string {
	toWrite := l.colorize( str, clr ) + " "
	if l.li.SaveTime {
		toWrite += time.Now().Format( time.RFC3339 ) + " "
	}
	return toWrite
}

func(l *Logger) logKey() ([]byte, error) {
	if l.key != nil {
		return l.key, nil
	}
	pass, saltBytes, err := cryptography.SplitWithSalt( l.li.Password )
	if err != nil {
		return nil, err
	}
	key, err := cryptography.SubKey( cryptography.DeriveKey( pass, saltBytes ), "log" )
	if err != nil {
		return nil, err
	}
	l.key = key
	return key, nil
}

func(l *Logger) LogString( s string ) {
	l.mtx.Lock()
	defer l.mtx.Unlock()
	if l.li.Filename == "" {
		io.WriteString( l.out, s + "\n" )
		return
	}
	if l.li.IsEncrypted == false {
		// just append line
		f, err := os.OpenFile( l.li.Filename, os.O_APPEND | os.O_CREATE | os.O_WRONLY, 0600 )
		if err == nil {
			defer f.Close()
			f.WriteString( s + "\n" )
		}
		return
	}

	key, err := l.logKey()
	if err != nil {
		return
	}
	var currentLog []byte
	data, err := os.ReadFile( l.li.Filename )
	if err == nil {
		if currentLog, err = cryptography.DecryptWithKey( data, key ); err != nil {
			// don't overwrite a log we can't read
			return
		}
	} else if !errors.Is( err, fs.ErrNotExist ) {
		return
	}
	newData := append( currentLog, []byte(s + "\n")... )
	if newData, err = cryptography.EncryptWithKey( newData, key ); err == nil {
		os.WriteFile( l.li.Filename, newData, 0600 )
	}
}

// reads the whole log back, decrypting it if needed
func(l *Logger) ReadLog() ([]byte, error) {
	l.mtx.Lock()
	defer l.mtx.Unlock()
	data, err := os.ReadFile( l.li.Filename )
	if err != nil || l.li.IsEncrypted == false {
		return data, err
	}
	key, err := l.logKey()
	if err != nil {
		return nil, err
	}
	return cryptography.DecryptWithKey( data, key )
}

func(l *Logger) LogError(err error) {
	if l.li.Mode & Error == Error {
		toWrite := l.prepareString("[ERROR]", RedColor) + err.Error()
		l.LogString( toWrite )
	}
}

func(l *Logger) LogWarning( warning string ) {
	if l.li.Mode & Warning == Warning {
		toWrite := l.prepareString("[WARNING]", YellowColor) + warning
		l.LogString( toWrite )
	}
}


func(l *Logger) LogInfo( info string ) {
	if l.li.Mode & Info == Info {
		toWrite := l.prepareString( "[INFO]", CyanColor ) + info
		l.LogString( toWrite )
	}
}
