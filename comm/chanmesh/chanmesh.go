// Package chanmesh implements comm.Communicator as an in-process mesh of
// goroutines, one per rank, all sending their collective calls over one
// shared request channel to a single coordinator goroutine.
// It exists so a single Go process can exercise the exact rendezvous-
// synchronous collective contract that partition and distree are written
// against, without any real network or MPI transport.
package chanmesh

import (
	"context"
	"fmt"
	"sort"

	"github.com/flier/octree/comm"
	"github.com/flier/octree/octreeerr"
)

// request tags one rank's arrival at a collective, carrying its payload and a
// channel the coordinator goroutine replies on.
type request struct {
	op      string
	rank    int
	data    [][]byte
	peer    int
	reduced float64
	flag    bool
	rop     comm.ReduceOp
	reply   chan response
}

type response struct {
	data    [][]byte
	reduced float64
	flag    bool
	err     error
}

// Mesh is a cohort of P in-process ranks sharing one coordinator goroutine
// that matches up each collective call across all P participants.
type Mesh struct {
	size int
	reqs chan request
	done chan struct{}
}

// New builds a Mesh of size ranks and starts its coordinator goroutine. The
// caller must construct exactly size Communicator values via Rank and drive
// each from its own goroutine, calling every collective in the same order on
// every rank.
func New(size int) *Mesh {
	if size <= 0 {
		panic(fmt.Errorf("chanmesh: size %d must be positive", size))
	}

	m := &Mesh{
		size: size,
		reqs: make(chan request),
		done: make(chan struct{}),
	}

	go m.coordinate()

	return m
}

// Rank returns the Communicator for the given rank in [0, Size()).
func (m *Mesh) Rank(rank int) comm.Communicator {
	if rank < 0 || rank >= m.size {
		panic(fmt.Errorf("chanmesh: rank %d out of range [0,%d)", rank, m.size))
	}
	return &endpoint{mesh: m, rank: rank}
}

// Close releases the coordinator goroutine. No endpoint may be used after Close.
func (m *Mesh) Close() { close(m.done) }

// coordinate is the single goroutine that serializes every collective: it
// blocks until it has seen one request per rank for the same op, then
// computes and replies.
func (m *Mesh) coordinate() {
	pending := map[string][]request{}

	for {
		select {
		case <-m.done:
			return
		case r := <-m.reqs:
			key := r.op
			pending[key] = append(pending[key], r)

			if len(pending[key]) < m.size {
				continue
			}

			batch := pending[key]
			delete(pending, key)

			sort.Slice(batch, func(i, j int) bool { return batch[i].rank < batch[j].rank })

			if mismatched(batch) {
				for _, req := range batch {
					req.reply <- response{err: fmt.Errorf("chanmesh: %w", octreeerr.ErrCollectiveMismatch)}
				}
				continue
			}

			dispatch(batch)
		}
	}
}

// mismatched reports whether a sendrecv batch names a peer outside
// [-1, size) — a usage bug rather than a transport failure. Batches are
// keyed by op name, so ranks calling different collectives are not detected
// here: each waits in its own op's batch.
func mismatched(batch []request) bool {
	if batch[0].op == "sendrecv" {
		for _, r := range batch {
			if r.peer < -1 || r.peer >= len(batch) {
				return true
			}
		}
	}
	return false
}

func dispatch(batch []request) {
	switch batch[0].op {
	case "allreduce":
		acc := batch[0].reduced
		for _, r := range batch[1:] {
			acc = comm.Reduce(batch[0].rop, acc, r.reduced)
		}
		for _, r := range batch {
			r.reply <- response{reduced: acc}
		}

	case "allreducebool":
		any := false
		for _, r := range batch {
			any = any || r.flag
		}
		for _, r := range batch {
			r.reply <- response{flag: any}
		}

	case "alltoall":
		n := len(batch)
		out := make([][][]byte, n)
		for i := range out {
			out[i] = make([][]byte, n)
		}
		for _, r := range batch {
			for dst, payload := range r.data {
				out[dst][r.rank] = payload
			}
		}
		for _, r := range batch {
			r.reply <- response{data: out[r.rank]}
		}

	case "allgather":
		all := make([][]byte, len(batch))
		for _, r := range batch {
			all[r.rank] = r.data[0]
		}
		for _, r := range batch {
			r.reply <- response{data: all}
		}

	case "sendrecv":
		byRank := make(map[int]request, len(batch))
		for _, r := range batch {
			byRank[r.rank] = r
		}
		for _, r := range batch {
			if r.peer < 0 {
				r.reply <- response{data: [][]byte{nil}}
				continue
			}
			peer := byRank[r.peer]
			r.reply <- response{data: [][]byte{peer.data[0]}}
		}

	case "barrier":
		for _, r := range batch {
			r.reply <- response{}
		}

	default:
		panic(fmt.Errorf("chanmesh: unknown op %q", batch[0].op))
	}
}

// endpoint is the per-rank comm.Communicator handle into a shared Mesh.
type endpoint struct {
	mesh *Mesh
	rank int
}

func (e *endpoint) Rank() int { return e.rank }
func (e *endpoint) Size() int { return e.mesh.size }

func (e *endpoint) call(ctx context.Context, req request) (response, error) {
	req.rank = e.rank
	reply := make(chan response, 1)
	req.reply = reply

	select {
	case e.mesh.reqs <- req:
	case <-ctx.Done():
		return response{}, ctx.Err()
	}

	select {
	case resp := <-reply:
		return resp, resp.err
	case <-ctx.Done():
		return response{}, ctx.Err()
	}
}

func (e *endpoint) AllReduce(ctx context.Context, local float64, op comm.ReduceOp) (float64, error) {
	resp, err := e.call(ctx, request{op: "allreduce", reduced: local, rop: op})
	return resp.reduced, err
}

func (e *endpoint) AllReduceBool(ctx context.Context, local bool) (bool, error) {
	resp, err := e.call(ctx, request{op: "allreducebool", flag: local})
	return resp.flag, err
}

func (e *endpoint) AllGather(ctx context.Context, local []byte) ([][]byte, error) {
	resp, err := e.call(ctx, request{op: "allgather", data: [][]byte{local}})
	return resp.data, err
}

func (e *endpoint) AllToAll(ctx context.Context, send [][]byte) ([][]byte, error) {
	if len(send) != e.mesh.size {
		return nil, fmt.Errorf("chanmesh: AllToAll payload count %d != size %d", len(send), e.mesh.size)
	}
	resp, err := e.call(ctx, request{op: "alltoall", data: send})
	return resp.data, err
}

func (e *endpoint) SendRecv(ctx context.Context, peer int, payload []byte) ([]byte, error) {
	resp, err := e.call(ctx, request{op: "sendrecv", data: [][]byte{payload}, peer: peer})
	if err != nil {
		return nil, err
	}
	return resp.data[0], nil
}

func (e *endpoint) Barrier(ctx context.Context) error {
	_, err := e.call(ctx, request{op: "barrier"})
	return err
}
