package extraction

import "fmt"

// ReadPhase describes the read worker's activity.
type ReadPhase int

const (
	ReadIdle ReadPhase = iota
	ReadPass
	ReadFixing
	ReadComplete
)

func (p ReadPhase) String() string {
	switch p {
	case ReadIdle:
		return "idle"
	case ReadPass:
		return "reading"
	case ReadFixing:
		return "fixing sectors"
	case ReadComplete:
		return "read complete"
	default:
		return fmt.Sprintf("read_phase(%d)", int(p))
	}
}

// EncodeState is the encode worker's state machine position.
type EncodeState int

const (
	EncodeIdle EncodeState = iota
	EncodeOpening
	EncodeStreaming
	EncodeClosing
	EncodeNextTrack
	EncodeFinished
	EncodeFailed
)

func (s EncodeState) String() string {
	switch s {
	case EncodeIdle:
		return "idle"
	case EncodeOpening:
		return "opening"
	case EncodeStreaming:
		return "streaming"
	case EncodeClosing:
		return "closing"
	case EncodeNextTrack:
		return "next_track"
	case EncodeFinished:
		return "finished"
	case EncodeFailed:
		return "failed"
	default:
		return fmt.Sprintf("encode_state(%d)", int(s))
	}
}

// Progress is a point-in-time view of a running job.
type Progress struct {
	JobID  string
	Tracks int

	// ReadTrack is the 1-based request position being read.
	ReadTrack    int
	ReadNumber   int
	ReadPhase    ReadPhase
	Pass         int
	ReadFraction float64

	// EncodeTrack is the 1-based request position being encoded.
	EncodeTrack    int
	EncodeNumber   int
	EncodeState    EncodeState
	// EncodeFraction covers every track of the job.
	EncodeFraction float64
}

// Label renders the read phase the way the CLI shows it.
func (p Progress) Label() string {
	switch p.ReadPhase {
	case ReadPass:
		return fmt.Sprintf("track %d pass %d", p.ReadNumber, p.Pass)
	case ReadFixing:
		return fmt.Sprintf("track %d fixing sectors", p.ReadNumber)
	default:
		return p.ReadPhase.String()
	}
}
