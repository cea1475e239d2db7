package worker
import (
	"fmt"
	"sync"
	"time"
	"errors"
	"context"

	"pixhide/util"
	"pixhide/config"
	"pixhide/stegano/img"
)

const (
	DefaultTimeout = 30 * time.Second
)

var (
	ErrTimeout = errors.New("worker: request timed out")
	ErrClosed = errors.New("worker: pool is closed")
	ErrUnknownRequest = errors.New("worker: unknown request id")
)

type Operation uint8

const (
	OpHide = Operation(0)
	OpReveal = Operation(1)
	OpCapacity = Operation(2)
)

func(o Operation) String() string {
	switch o {
	case OpHide:
		return "hide"
	case OpReveal:
		return "reveal"
	case OpCapacity:
		return "capacity"
	}
	return fmt.Sprintf("Operation(%d)", uint8(o))
}

type Request struct {
	Op		Operation
	Carrier		[]byte		// image file, png or bmp
	Data		[]byte		// OpHide
	PayloadLen	int		// OpCapacity
	Options		img.Options
}

type Response struct {
	ID		string
	Carrier		[]byte		// OpHide: the new image file
	Data		[]byte		// OpReveal: the payload
	Capacity	img.Capacity	// OpCapacity
	Options		img.Options	// options used, alpha pinned by OpHide
	Err		error
}

type job struct {
	id	string
	req	Request
}

/*
 * Pool runs the image codecs off the caller's goroutine. Every request gets
 * a correlation id; the response is parked under that id until someone
 * awaits it. The codecs know nothing about time, so the timeout belongs to
 * whoever awaits.
 */
type Pool struct {
	jobs		chan job
	pending		map[string]chan Response
	pmtx		sync.Mutex		// guards pending
	state		sync.RWMutex		// guards closed and sends to jobs
	closed		bool
	timeout		time.Duration
	logger		*util.Logger
	wg		sync.WaitGroup
	handle		func( Request ) Response
}

func New( conf config.WorkerConfig, logger *util.Logger ) *Pool {
	return newPool( conf, logger, process )
}

func newPool( conf config.WorkerConfig, logger *util.Logger, handle func( Request ) Response ) *Pool {
	workers := int(conf.Workers)
	if workers <= 0 {
		workers = 1
	}
	timeout := time.Duration( conf.Timeout ) * time.Millisecond
	if timeout == 0 {
		timeout = DefaultTimeout
	}

	p := &Pool{
		jobs: make( chan job, conf.QueueSize ),
		pending: make( map[string]chan Response ),
		timeout: timeout,
		logger: logger,
		handle: handle,
	}

	p.wg.Add( workers )
	for i := 0; i < workers; i++ {
		go p.run()
	}
	return p
}

func(p *Pool) run() {
	defer p.wg.Done()
	for j := range p.jobs {
		resp := p.safeHandle( j )
		p.pmtx.Lock()
		ch, ok := p.pending[j.id]
		p.pmtx.Unlock()
		if !ok {
			// nobody waits anymore
			p.logger.LogWarning( fmt.Sprintf("Dropping response to abandoned request %s (%v)", j.id, j.req.Op) )
			continue
		}
		ch <- resp
	}
}

func(p *Pool) safeHandle( j job ) (resp Response) {
	defer func() {
		if r := recover(); r != nil {
			err := fmt.Errorf("worker: request %s (%v) panicked: %v", j.id, j.req.Op, r)
			p.logger.LogError( err )
			resp = Response{ Options: j.req.Options, Err: err }
		}
		resp.ID = j.id
	}()
	util.DebugPrintln( "[worker] processing", j.id, j.req.Op )
	return p.handle( j.req )
}

func process( req Request ) Response {
	resp := Response{ Options: req.Options }
	switch req.Op {
	case OpHide:
		resp.Carrier, resp.Options, resp.Err = img.Hide( req.Carrier, req.Data, req.Options )
	case OpReveal:
		resp.Data, resp.Err = img.Reveal( req.Carrier, req.Options )
	case OpCapacity:
		pixels, format, err := img.DecodeCarrier( req.Carrier )
		if err != nil {
			resp.Err = err
			break
		}
		if resp.Options, resp.Err = img.CarrierOptions( pixels, format, req.Options ); resp.Err != nil {
			break
		}
		resp.Capacity, resp.Err = img.Plan( pixels, req.PayloadLen, resp.Options )
	default:
		resp.Err = fmt.Errorf("worker: unknown operation %v", req.Op)
	}
	return resp
}

func(p *Pool) forget( id string ) {
	p.pmtx.Lock()
	delete( p.pending, id )
	p.pmtx.Unlock()
}

// queues req and returns its correlation id. Blocks while the queue is full.
func(p *Pool) Submit( ctx context.Context, req Request ) (string, error) {
	p.state.RLock()
	defer p.state.RUnlock()
	if p.closed {
		return "", ErrClosed
	}

	id := util.GenID()
	p.pmtx.Lock()
	p.pending[id] = make( chan Response, 1 )
	p.pmtx.Unlock()

	select {
	case p.jobs <- job{ id, req }:
		return id, nil
	case <- ctx.Done():
		p.forget( id )
		return "", wrapContextErr( ctx.Err(), id )
	}
}

/*
 * Await waits for the response to id or for ctx, whichever comes first.
 * Either way the pending slot is released, so a late response is dropped
 * and a second Await on the same id returns ErrUnknownRequest.
 */
func(p *Pool) Await( ctx context.Context, id string ) (Response, error) {
	p.pmtx.Lock()
	ch, ok := p.pending[id]
	p.pmtx.Unlock()
	if !ok {
		return Response{}, fmt.Errorf("%w: %s", ErrUnknownRequest, id)
	}

	select {
	case resp := <- ch:
		p.forget( id )
		return resp, resp.Err
	case <- ctx.Done():
		p.forget( id )
		return Response{ ID: id }, wrapContextErr( ctx.Err(), id )
	}
}

func wrapContextErr( err error, id string ) error {
	if errors.Is( err, context.DeadlineExceeded ) {
		return fmt.Errorf("%w: %s", ErrTimeout, id)
	}
	return err
}

// Submit and Await. Without a deadline on ctx the pool's timeout applies.
func(p *Pool) Do( ctx context.Context, req Request ) (Response, error) {
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout( ctx, p.timeout )
		defer cancel()
	}
	id, err := p.Submit( ctx, req )
	if err != nil {
		return Response{}, err
	}
	return p.Await( ctx, id )
}

func(p *Pool) Hide( ctx context.Context, decoy, data []byte, opts img.Options ) ([]byte, img.Options, error) {
	resp, err := p.Do( ctx, Request{
		Op: OpHide,
		Carrier: decoy,
		Data: data,
		Options: opts,
	})
	if err != nil {
		return nil, resp.Options, err
	}
	return resp.Carrier, resp.Options, nil
}

func(p *Pool) Reveal( ctx context.Context, decoy []byte, opts img.Options ) ([]byte, error) {
	resp, err := p.Do( ctx, Request{
		Op: OpReveal,
		Carrier: decoy,
		Options: opts,
	})
	if err != nil {
		return nil, err
	}
	return resp.Data, nil
}

func(p *Pool) Capacity( ctx context.Context, decoy []byte, payloadLen int, opts img.Options ) (img.Capacity, error) {
	resp, err := p.Do( ctx, Request{
		Op: OpCapacity,
		Carrier: decoy,
		PayloadLen: payloadLen,
		Options: opts,
	})
	return resp.Capacity, err
}

// stops accepting requests and waits for the queued ones to finish.
func(p *Pool) Close() {
	p.state.Lock()
	if p.closed {
		p.state.Unlock()
		return
	}
	p.closed = true
	close( p.jobs )
	p.state.Unlock()

	p.wg.Wait()
}
