package consumer_test

import (
	"context"
	"errors"
	"testing"

	"go-vacation/internal/messaging/kafka/consumer"
	rostererrors "go-vacation/internal/roster/errors"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type fakeReader struct {
	msgs      []kafkago.Message
	committed []int64
	cancel    context.CancelFunc
}

func (r *fakeReader) FetchMessage(ctx context.Context) (kafkago.Message, error) {
	if len(r.msgs) == 0 {
		r.cancel()
		return kafkago.Message{}, ctx.Err()
	}
	msg := r.msgs[0]
	r.msgs = r.msgs[1:]
	return msg, nil
}

func (r *fakeReader) CommitMessages(ctx context.Context, msgs ...kafkago.Message) error {
	for _, m := range msgs {
		r.committed = append(r.committed, m.Offset)
	}
	return nil
}

type warmCall struct {
	companyID string
	deptID    int64
}

type fakeWarmer struct {
	calls []warmCall
	errs  map[int64]error
}

func (w *fakeWarmer) WarmDepartmentRoster(ctx context.Context, companyID string, deptID int64) error {
	w.calls = append(w.calls, warmCall{companyID, deptID})
	return w.errs[deptID]
}

func TestConsumeRosterChanged(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reader := &fakeReader{
		cancel: cancel,
		msgs: []kafkago.Message{
			{Offset: 1, Value: []byte(`{"event_type":"roster.position_assigned","company_id":"c1","department_id":4,"position_id":10}`)},
			{Offset: 2, Value: []byte(`not json`)},
			{Offset: 3, Value: []byte(`{"event_type":"roster.position_unassigned","company_id":"c1","department_id":8,"position_id":10}`)},
			{Offset: 4, Value: []byte(`{"event_type":"roster.headcount_changed","company_id":"c1","department_id":9,"position_id":10}`)},
		},
	}
	warmer := &fakeWarmer{errs: map[int64]error{
		8: rostererrors.ErrDepartmentNotFound,
		9: errors.New("redis timeout"),
	}}

	consumer.ConsumeRosterChanged(ctx, reader, warmer, zap.NewNop())

	assert.Equal(t, []warmCall{{"c1", 4}, {"c1", 8}, {"c1", 9}}, warmer.calls)
	// offset 4 failed transiently and stays uncommitted
	assert.Equal(t, []int64{1, 2, 3}, reader.committed)
}
