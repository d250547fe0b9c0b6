package analysisService

import (
	"ProjectPoseForm/internal/api/analysis"
	"context"
)

type envelope struct {
	ctx   context.Context
	raw   []byte
	reply chan reply
}

type reply struct {
	resp analysis.Response
	ok   bool
}

// Start launches the worker pool. Every worker takes one envelope at a time
// from the shared inbox and runs it to completion before taking the next.
func (s *analysisService) Start(ctx context.Context) {
	s.startOnce.Do(func() {
		for i := 0; i < s.cfg.Workers; i++ {
			s.wg.Add(1)
			go s.runWorker(ctx, i)
		}

		s.log.WithField("workers", s.cfg.Workers).Info("Form analysis workers started")
	})
}

func (s *analysisService) Stop() {
	s.stopOnce.Do(func() {
		close(s.quit)
		s.wg.Wait()
		s.log.Info("Form analysis workers stopped")
	})
}

func (s *analysisService) runWorker(ctx context.Context, id int) {
	defer s.wg.Done()
	defer s.log.WithField("worker", id).Debug("Form analysis worker exiting")

	for {
		select {
		case <-ctx.Done():
			return
		case <-s.quit:
			return
		case env := <-s.inbox:
			resp, ok := s.Handle(env.ctx, env.raw)
			// reply is buffered, so an abandoned submitter never blocks a worker.
			env.reply <- reply{resp: resp, ok: ok}
		}
	}
}

func (s *analysisService) Submit(ctx context.Context, raw []byte) (analysis.Response, bool, error) {
	env := envelope{
		ctx:   ctx,
		raw:   raw,
		reply: make(chan reply, 1),
	}

	select {
	case <-s.quit:
		return analysis.Response{}, false, analysis.ErrEngineStopped
	default:
	}

	select {
	case s.inbox <- env:
	case <-s.quit:
		return analysis.Response{}, false, analysis.ErrEngineStopped
	case <-ctx.Done():
		return analysis.Response{}, false, ctx.Err()
	}

	select {
	case r := <-env.reply:
		return r.resp, r.ok, nil
	case <-s.quit:
		return analysis.Response{}, false, analysis.ErrEngineStopped
	case <-ctx.Done():
		return analysis.Response{}, false, ctx.Err()
	}
}
