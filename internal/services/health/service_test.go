package health

import (
	"context"
	"errors"
	"testing"
)

type fakePinger struct{ err error }

func (f fakePinger) PingContext(ctx context.Context) error { return f.err }

func TestStatus(t *testing.T) {
	cases := []struct {
		name string
		svc  *Service
		want Report
	}{
		{name: "memory", svc: NewService(nil), want: Report{OK: true, Database: "memory"}},
		{name: "up", svc: NewService(fakePinger{}), want: Report{OK: true, Database: "up"}},
		{name: "down", svc: NewService(fakePinger{err: errors.New("refused")}), want: Report{OK: false, Database: "down"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.svc.Status(context.Background()); got != tc.want {
				t.Fatalf("Status() = %+v, want %+v", got, tc.want)
			}
		})
	}
}
