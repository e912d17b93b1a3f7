package notify

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/repairtrack-api/internal/domain"
	"github.com/repairtrack-api/internal/push/apns"
	"github.com/repairtrack-api/internal/push/fcm"
)

type multicastSender interface {
	SendMulticast(ctx context.Context, msg *fcm.Message, tokens []string) (*fcm.BatchResponse, error)
}

type apnsSession interface {
	Push(ctx context.Context, payload *apns.Payload, deviceTokens []string) (*apns.Result, error)
	Close()
}

// Dispatcher partitions a token list by channel, chunks each partition
// within provider limits and collects per-batch outcomes. It never returns
// an error: every failure is folded into an error-tagged BatchResult.
type Dispatcher struct {
	fcm         multicastSender
	openSession func() (apnsSession, error)
}

// NewDispatcher wires the two providers. Either may be nil when the
// deployment has no credentials for that channel; its batches then come back
// error-tagged instead of silently dropped.
func NewDispatcher(fcmClient *fcm.Client, apnsProvider *apns.Provider) *Dispatcher {
	d := &Dispatcher{}
	if fcmClient != nil {
		d.fcm = fcmClient
	}
	if apnsProvider != nil {
		d.openSession = func() (apnsSession, error) { return apnsProvider.NewSession() }
	}
	return d
}

// Dispatch sends the composed payloads to every token. Chunks within a
// channel run sequentially in index order so batch indices are
// deterministic; the two channels run concurrently since they are
// independent providers. Once started, dispatch runs to completion — there
// is no mid-flight abort.
func (d *Dispatcher) Dispatch(ctx context.Context, tokens []string, fcmMsg *fcm.Message, apnsPayload *apns.Payload) []domain.BatchResult {
	var fcmTokens, apnsTokens []string
	for _, t := range tokens {
		if t == "" {
			continue
		}
		if Classify(t) == domain.ChannelAPNS {
			apnsTokens = append(apnsTokens, t)
		} else {
			fcmTokens = append(fcmTokens, t)
		}
	}

	var fcmResults, apnsResults []domain.BatchResult
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		fcmResults = d.dispatchFCM(ctx, fcmTokens, fcmMsg)
	}()
	go func() {
		defer wg.Done()
		apnsResults = d.dispatchAPNS(ctx, apnsTokens, apnsPayload)
	}()
	wg.Wait()

	return append(fcmResults, apnsResults...)
}

func (d *Dispatcher) dispatchFCM(ctx context.Context, tokens []string, msg *fcm.Message) []domain.BatchResult {
	if len(tokens) == 0 {
		return nil
	}

	var results []domain.BatchResult
	for i, batch := range chunk(tokens, fcm.MaxMulticastTokens) {
		br := domain.BatchResult{BatchIndex: i + 1, Channel: domain.ChannelFCM}
		switch {
		case d.fcm == nil:
			br.Error = "fcm sender not configured"
		default:
			resp, err := d.fcm.SendMulticast(ctx, msg, batch)
			if err != nil {
				// Whole-batch failure: zero counts, move on to the next chunk.
				br.Error = err.Error()
				slog.Error("fcm batch failed", "batch", br.BatchIndex, "size", len(batch), "err", err)
			} else {
				br.SuccessCount = resp.SuccessCount
				br.FailureCount = resp.FailureCount
				for _, r := range resp.Responses {
					br.Detail = append(br.Detail, domain.TokenDetail{
						Token:  r.Token,
						OK:     r.Error == "",
						Reason: r.Error,
					})
				}
			}
		}
		results = append(results, br)
	}
	return results
}

func (d *Dispatcher) dispatchAPNS(ctx context.Context, tokens []string, payload *apns.Payload) []domain.BatchResult {
	if len(tokens) == 0 {
		return nil
	}
	if d.openSession == nil {
		return []domain.BatchResult{{BatchIndex: 1, Channel: domain.ChannelAPNS, Error: "apns sender not configured"}}
	}

	session, err := d.openSession()
	if err != nil {
		return []domain.BatchResult{{BatchIndex: 1, Channel: domain.ChannelAPNS, Error: fmt.Sprintf("open session: %v", err)}}
	}
	// Exactly one release on every exit path; the session must not leak.
	defer session.Close()

	var results []domain.BatchResult
	for i, batch := range chunk(tokens, apns.MaxBatchDevices) {
		br := domain.BatchResult{BatchIndex: i + 1, Channel: domain.ChannelAPNS}
		res, err := session.Push(ctx, payload, batch)
		if err != nil {
			br.Error = err.Error()
			slog.Error("apns batch failed", "batch", br.BatchIndex, "size", len(batch), "err", err)
		} else {
			br.SuccessCount = len(res.Sent)
			br.FailureCount = len(res.Failed)
			for _, dev := range res.Sent {
				br.Detail = append(br.Detail, domain.TokenDetail{Token: dev, OK: true})
			}
			for _, rej := range res.Failed {
				br.Detail = append(br.Detail, domain.TokenDetail{
					Token:  rej.Device,
					Status: rej.Status,
					Reason: rej.Reason,
				})
			}
		}
		results = append(results, br)
	}
	return results
}

// chunk splits tokens into contiguous slices of at most size, preserving
// discovery order.
func chunk(tokens []string, size int) [][]string {
	var chunks [][]string
	for start := 0; start < len(tokens); start += size {
		end := start + size
		if end > len(tokens) {
			end = len(tokens)
		}
		chunks = append(chunks, tokens[start:end])
	}
	return chunks
}
