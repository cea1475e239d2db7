package worker
import (
	"io"
	"bytes"
	"errors"
	"context"
	"testing"
	"time"
	"image/png"
	"math/rand"

	"golang.org/x/image/bmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pixhide/util"
	"pixhide/config"
	"pixhide/stegano/img"
	stegutil "pixhide/stegano/util"
)

func testLogger() *util.Logger {
	return util.NewWriterLogger( &util.LoggerInfo{ Mode: util.Error | util.Warning }, io.Discard )
}

func testCarrier( t *testing.T, width, height int ) []byte {
	rnd := rand.New( rand.NewSource( int64(width * height) ) )
	pixels := img.NewPixelBuffer( width, height )
	rnd.Read( pixels.Pix )
	buf := new(bytes.Buffer)
	require.NoError( t, png.Encode( buf, pixels.Image() ) )
	return buf.Bytes()
}

func TestPoolCodecs( t *testing.T ) {
	p := New( config.DefaultConfig().Worker, testLogger() )
	defer p.Close()
	ctx := context.Background()
	carrier := testCarrier( t, 32, 32 )

	for _, opts := range []img.Options{
		img.DefaultOptions(),
		{ Method: img.MethodLSB, BitsPerChannel: 3, Alpha: img.AlphaNever },
		{ Method: img.MethodPVD, MaxBitsPerPair: 4, Alpha: img.AlphaAlways },
	} {
		enc, used, err := p.Hide( ctx, carrier, []byte("Hello world!"), opts )
		require.NoError( t, err )
		assert.NotEqual( t, img.AlphaAuto, used.Alpha )

		dec, err := p.Reveal( ctx, enc, used )
		require.NoError( t, err )
		assert.Equal( t, []byte("Hello world!"), dec )
	}

	c, err := p.Capacity( ctx, carrier, 100, img.DefaultOptions() )
	require.NoError( t, err )
	assert.True( t, c.Fits )
	assert.Equal( t, 32 * 32 * 4, c.CapacityBits )

	_, _, err = p.Hide( ctx, []byte("not an image"), []byte("x"), img.DefaultOptions() )
	assert.Error( t, err )
	_, err = p.Do( ctx, Request{ Op: Operation(42) } )
	assert.Error( t, err )

	// a payload which can't fit
	_, _, err = p.Hide( ctx, carrier, make([]byte, 1024), img.DefaultOptions() )
	assert.True( t, errors.Is( err, stegutil.ErrInsufficientCapacity ) )
}

func TestPoolBMPAlpha( t *testing.T ) {
	p := New( config.DefaultConfig().Worker, testLogger() )
	defer p.Close()
	ctx := context.Background()

	rnd := rand.New( rand.NewSource( 7 ) )
	pixels := img.NewPixelBuffer( 16, 16 )
	rnd.Read( pixels.Pix )
	buf := new(bytes.Buffer)
	require.NoError( t, bmp.Encode( buf, pixels.Image() ) )

	_, err := p.Capacity( ctx, buf.Bytes(), 10, img.Options{ Method: img.MethodLSB, BitsPerChannel: 1, Alpha: img.AlphaAlways } )
	assert.True( t, errors.Is( err, img.ErrAlphaDropped ), "got %v", err )

	// auto counts the color channels only
	c, err := p.Capacity( ctx, buf.Bytes(), 10, img.DefaultOptions() )
	require.NoError( t, err )
	assert.False( t, c.Alpha )
	assert.Equal( t, 16 * 16 * 3, c.CapacityBits )

	_, _, err = p.Hide( ctx, buf.Bytes(), []byte("x"), img.Options{ Method: img.MethodPVD, MaxBitsPerPair: 3, Alpha: img.AlphaAlways } )
	assert.True( t, errors.Is( err, img.ErrAlphaDropped ), "got %v", err )
}

func TestPoolCorrelation( t *testing.T ) {
	p := newPool( config.WorkerConfig{ Workers: 4, QueueSize: 2 }, testLogger(),
		func( req Request ) Response {
			time.Sleep( time.Duration( rand.Intn( 5 ) ) * time.Millisecond )
			return Response{ Data: req.Data }
		})
	defer p.Close()
	ctx := context.Background()

	ids := []string{}
	for i := 0; i < 16; i++ {
		id, err := p.Submit( ctx, Request{ Op: OpReveal, Data: []byte{ byte(i) } } )
		require.NoError( t, err )
		ids = append( ids, id )
	}
	for i := len(ids) - 1; i >= 0; i-- {
		resp, err := p.Await( ctx, ids[i] )
		require.NoError( t, err )
		assert.Equal( t, ids[i], resp.ID )
		assert.Equal( t, []byte{ byte(i) }, resp.Data )
	}
}

func TestPoolTimeout( t *testing.T ) {
	release := make( chan struct{} )
	p := newPool( config.WorkerConfig{ Workers: 1, QueueSize: 1, Timeout: 50 }, testLogger(),
		func( req Request ) Response {
			<- release
			return Response{}
		})
	defer p.Close()
	defer close( release )

	id, err := p.Submit( context.Background(), Request{ Op: OpReveal } )
	require.NoError( t, err )

	ctx, cancel := context.WithTimeout( context.Background(), 20 * time.Millisecond )
	defer cancel()
	_, err = p.Await( ctx, id )
	assert.True( t, errors.Is( err, ErrTimeout ), "got %v", err )

	// the slot is gone after a timeout
	_, err = p.Await( context.Background(), id )
	assert.True( t, errors.Is( err, ErrUnknownRequest ), "got %v", err )

	// no deadline: the pool's own timeout applies
	start := time.Now()
	_, err = p.Do( context.Background(), Request{ Op: OpReveal } )
	assert.True( t, errors.Is( err, ErrTimeout ), "got %v", err )
	assert.GreaterOrEqual( t, time.Since( start ), 50 * time.Millisecond )
}

func TestPoolUnknownRequest( t *testing.T ) {
	p := New( config.WorkerConfig{ Workers: 1 }, testLogger() )
	defer p.Close()
	_, err := p.Await( context.Background(), "no-such-id" )
	assert.True( t, errors.Is( err, ErrUnknownRequest ) )
}

func TestPoolPanic( t *testing.T ) {
	p := newPool( config.WorkerConfig{ Workers: 1 }, testLogger(),
		func( req Request ) Response {
			if req.Op == OpCapacity {
				panic( "broken carrier" )
			}
			return Response{ Data: req.Data }
		})
	defer p.Close()
	ctx := context.Background()

	resp, err := p.Do( ctx, Request{ Op: OpCapacity } )
	require.Error( t, err )
	assert.Contains( t, err.Error(), "broken carrier" )
	assert.NotEmpty( t, resp.ID )

	// the worker survived
	resp, err = p.Do( ctx, Request{ Op: OpReveal, Data: []byte("ok") } )
	require.NoError( t, err )
	assert.Equal( t, []byte("ok"), resp.Data )
}

func TestPoolClosed( t *testing.T ) {
	p := New( config.WorkerConfig{ Workers: 2, QueueSize: 4 }, testLogger() )
	p.Close()
	p.Close()

	_, err := p.Submit( context.Background(), Request{} )
	assert.True( t, errors.Is( err, ErrClosed ) )
	_, err = p.Do( context.Background(), Request{} )
	assert.True( t, errors.Is( err, ErrClosed ) )
}
