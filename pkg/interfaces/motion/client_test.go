package motion_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"

	"github.com/novabotics/agent-go/pkg/interfaces/motion"
	"github.com/sirupsen/logrus"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

// fakeGateway records requests and serves canned responses.
type fakeGateway struct {
	mu       sync.Mutex
	requests []*http.Request
	bodies   [][]byte
	handler  http.HandlerFunc
}

func (g *fakeGateway) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)

	g.mu.Lock()
	g.requests = append(g.requests, r)
	g.bodies = append(g.bodies, body)
	g.mu.Unlock()

	g.handler(w, r)
}

func (g *fakeGateway) lastRequest() *http.Request {
	g.mu.Lock()
	defer g.mu.Unlock()
	if len(g.requests) == 0 {
		return nil
	}
	return g.requests[len(g.requests)-1]
}

func (g *fakeGateway) lastBody() []byte {
	g.mu.Lock()
	defer g.mu.Unlock()
	if len(g.bodies) == 0 {
		return nil
	}
	return g.bodies[len(g.bodies)-1]
}

func (g *fakeGateway) requestCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.requests)
}

var _ = Describe("MotionClient", func() {
	var (
		gateway *fakeGateway
		server  *httptest.Server
		client  *motion.MotionClient
	)

	newClient := func() *motion.MotionClient {
		logger := logrus.New()
		logger.SetLevel(logrus.PanicLevel)

		config := &motion.MotionConfig{
			BaseURL:     server.URL,
			BearerToken: "test-token",
			RateLimit:   1000,
			RateWindow:  1,
			Logger:      logger,
		}
		c, err := motion.NewMotionClient(config)
		Expect(err).NotTo(HaveOccurred())
		return c
	}

	BeforeEach(func() {
		gateway = &fakeGateway{
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				_ = json.NewEncoder(w).Encode(map[string]any{
					"accepted":   true,
					"command_id": "cmd-1",
				})
			},
		}
		server = httptest.NewServer(gateway)
		client = newClient()
	})

	AfterEach(func() {
		server.Close()
	})

	Describe("SendMove", func() {
		It("posts the command as JSON with bearer auth", func() {
			err := client.SendMove(context.Background(), motion.MoveRequest{
				DX:    1.5,
				Yaw:   0.3,
				Speed: 0.5,
			})
			Expect(err).NotTo(HaveOccurred())

			req := gateway.lastRequest()
			Expect(req.Method).To(Equal(http.MethodPost))
			Expect(req.URL.Path).To(Equal("/commands/move"))
			Expect(req.Header.Get("Authorization")).To(Equal("Bearer test-token"))
			Expect(req.Header.Get("Content-Type")).To(Equal("application/json"))

			var sent motion.MoveRequest
			Expect(json.Unmarshal(gateway.lastBody(), &sent)).To(Succeed())
			Expect(sent.DX).To(Equal(1.5))
			Expect(sent.Yaw).To(Equal(0.3))
		})

		It("fails when the gateway rejects the command", func() {
			gateway.handler = func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				_ = json.NewEncoder(w).Encode(map[string]any{
					"accepted":   false,
					"command_id": "cmd-2",
				})
			}

			err := client.SendMove(context.Background(), motion.MoveRequest{DX: 1})
			Expect(err).To(MatchError(ContainSubstring("rejected")))
		})
	})

	Describe("GetStatus", func() {
		It("decodes the gateway status", func() {
			gateway.handler = func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				_ = json.NewEncoder(w).Encode(map[string]any{
					"state":       "idle",
					"pose":        map[string]float64{"x": 2.0, "y": 3.0, "heading": 1.57},
					"battery_pct": 82.5,
				})
			}

			status, err := client.GetStatus(context.Background())
			Expect(err).NotTo(HaveOccurred())
			Expect(status.State).To(Equal("idle"))
			Expect(status.Pose.X).To(Equal(2.0))
			Expect(status.BatteryPct).To(Equal(82.5))
		})
	})

	Describe("error handling", func() {
		It("surfaces structured gateway errors", func() {
			gateway.handler = func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnprocessableEntity)
				_ = json.NewEncoder(w).Encode(map[string]any{
					"errors": []map[string]any{
						{"message": "speed out of range", "code": 42},
					},
				})
			}

			err := client.SendMove(context.Background(), motion.MoveRequest{Speed: 99})
			Expect(err).To(MatchError(ContainSubstring("speed out of range")))
		})

		It("retries server errors before giving up", func() {
			gateway.handler = func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
			}

			err := client.Halt(context.Background())
			Expect(err).To(HaveOccurred())
			Expect(gateway.requestCount()).To(Equal(3))
		})
	})
})
