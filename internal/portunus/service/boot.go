package service

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/BrandonDHaskell/Portunus/controller/internal/clock"
	"github.com/BrandonDHaskell/Portunus/controller/internal/portunus/device"
	"github.com/BrandonDHaskell/Portunus/controller/internal/portunus/store"
	"github.com/BrandonDHaskell/Portunus/controller/internal/portunus/types"
)

var ErrReaderIdentity = errors.New("reader reported no firmware identity")

// FatalStep identifies the startup step that failed. Each has its own
// indicator pattern so the fault can be read off the device.
type FatalStep int

const (
	StepReader FatalStep = iota + 1
	StepStorage
	StepBootSession
	StepLogHeader
	StepCredentialList
)

func (s FatalStep) String() string {
	switch s {
	case StepReader:
		return "reader"
	case StepStorage:
		return "storage"
	case StepBootSession:
		return "boot_session"
	case StepLogHeader:
		return "log_header"
	case StepCredentialList:
		return "credential_list"
	default:
		return fmt.Sprintf("step(%d)", int(s))
	}
}

// FatalPattern returns the blink color and count for a failed step.
func (p Palette) FatalPattern(s FatalStep) (Color, int) {
	switch s {
	case StepStorage:
		return p.Red, 2
	case StepBootSession:
		return p.Red, 3
	case StepLogHeader:
		return p.Purple, 1
	case StepCredentialList:
		return p.Purple, 2
	default:
		return p.Red, 1
	}
}

// FatalError is returned by Boot when the device cannot start. The caller
// is expected to show Indicator.Halt for Step and do nothing else.
type FatalError struct {
	Step FatalStep
	Err  error
}

func (e *FatalError) Error() string {
	return fmt.Sprintf("startup failed at %s: %v", e.Step, e.Err)
}

func (e *FatalError) Unwrap() error { return e.Err }

// Files names the three files on the storage volume.
type Files struct {
	Credentials string
	BootCounter string
	AuditLog    string
}

func DefaultFiles() Files {
	return Files{
		Credentials: "IDlist.csv",
		BootCounter: "boot_id.txt",
		AuditLog:    "log.csv",
	}
}

type BootDependencies struct {
	Logger    *log.Logger
	Clock     clock.Clock
	Reader    device.CardReader
	Door      device.DoorSensor
	Solenoid  device.Solenoid
	Indicator *Indicator

	// Mount brings up the storage volume.
	Mount func() (store.Volume, error)
	Files Files

	Journal store.EventJournal // optional

	// OpenJournal, if set, is called once every fatal step has passed and
	// replaces Journal. A failure is logged and the device runs without
	// a journal.
	OpenJournal func() (store.EventJournal, error)

	Metrics *Metrics // optional
	Status  *StatusBoard       // optional
	Timing  Timing
}

// credential list load blink
const (
	listBlinkOn  = 120 * time.Millisecond
	listBlinkOff = 120 * time.Millisecond
)

// Boot brings the device up in order: solenoid off, reader, storage, boot
// session, audit log header, credential list. The boot counter is written
// before any other persisted state, including the optional journal, which
// is opened last. Any failure returns a *FatalError.
func Boot(d BootDependencies) (*Controller, error) {
	bootedAt := d.Clock.Now()
	d.Logger.Printf("[SYS] boot")

	metrics := d.Metrics
	if metrics == nil {
		metrics = NewMetrics(nil)
	}

	pal := d.Indicator.Palette()
	d.Indicator.Set(pal.White)
	d.Solenoid.Off()

	fail := func(step FatalStep, err error) (*Controller, error) {
		fe := &FatalError{Step: step, Err: err}
		d.Logger.Printf("[SYS] %v", fe)
		if d.Status != nil {
			d.Status.Publish(types.Status{State: "halted", Fatal: step.String()})
		}
		return nil, fe
	}

	fw, err := d.Reader.Identify()
	if err == nil && fw == 0 {
		err = ErrReaderIdentity
	}
	if err != nil {
		d.Logger.Printf("[RFID] init failed")
		return fail(StepReader, err)
	}
	d.Logger.Printf("[RFID] init ok firmware=0x%08x", fw)

	d.Logger.Printf("[SD] init start")
	vol, err := d.Mount()
	if err != nil {
		d.Logger.Printf("[SD] init failed")
		return fail(StepStorage, err)
	}
	d.Logger.Printf("[SD] init ok")

	session, err := store.BeginSession(vol, d.Files.BootCounter)
	if err != nil {
		d.Logger.Printf("[BOOT] write failed")
		return fail(StepBootSession, err)
	}
	d.Logger.Printf("[BOOT] session id=%d", session)

	audit := store.NewAuditLog(vol, d.Files.AuditLog, d.Clock, d.Timing.LogSettle)
	d.Logger.Printf("[LOG] ensure header")
	wrote, err := audit.EnsureHeader()
	if err != nil {
		d.Logger.Printf("[LOG] header open failed")
		return fail(StepLogHeader, err)
	}
	if wrote {
		d.Logger.Printf("[LOG] header write ok")
	} else {
		d.Logger.Printf("[LOG] header already exists")
	}

	d.Logger.Printf("[IDLIST] read start")
	d.Indicator.Blink(pal.Purple, 2, listBlinkOn, listBlinkOff)
	creds, err := store.LoadCredentials(vol, d.Files.Credentials)
	if err != nil {
		d.Logger.Printf("[IDLIST] open failed")
		return fail(StepCredentialList, err)
	}
	d.Logger.Printf("[IDLIST] read ok, count=%d", creds.Len())

	journal := d.Journal
	if d.OpenJournal != nil {
		j, err := d.OpenJournal()
		if err != nil {
			metrics.journalFailures.Inc()
			d.Logger.Printf("[JOURNAL] open failed, running without journal: %v", err)
			journal = nil
		} else {
			journal = j
		}
	}

	d.Indicator.ShowDoor(d.Door.IsLocked())

	return NewController(Dependencies{
		Logger:      d.Logger,
		Clock:       d.Clock,
		Reader:      d.Reader,
		Door:        d.Door,
		Solenoid:    d.Solenoid,
		Indicator:   d.Indicator,
		Credentials: creds,
		AuditLog:    audit,
		Journal:     journal,
		Metrics:     metrics,
		Status:      d.Status,
		Timing:      d.Timing,
		SessionID:   session,
		BootedAt:    bootedAt,
	}), nil
}
