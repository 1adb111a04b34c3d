package httpapi

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/netip"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	contactstore "lowa/internal/contact/store"
	"lowa/internal/listing/handler"
	"lowa/internal/listing/models"
	"lowa/internal/listing/service"
	liststore "lowa/internal/listing/store"
	"lowa/internal/platform/metrics"
	"lowa/pkg/testutil"
)

type exchange struct {
	router   http.Handler
	contacts *contactstore.InMemory
	listings *liststore.InMemory
}

func newExchange(t *testing.T, checks map[string]ReadyCheck) exchange {
	t.Helper()
	return newLimitedExchange(t, checks, 0, nil)
}

func newLimitedExchange(t *testing.T, checks map[string]ReadyCheck, writeRate int, trusted []netip.Prefix) exchange {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	reg := prometheus.NewRegistry()
	m := metrics.NewWithRegistry(reg)

	contacts := contactstore.NewInMemory()
	listings := liststore.NewInMemory()
	svc := service.New(contacts, listings, service.WithLogger(logger), service.WithMetrics(m))

	router := NewRouter(RouterOptions{
		Logger:         logger,
		Metrics:        m,
		ReadyChecks:    checks,
		Gatherer:       reg,
		TrustedProxies: trusted,
	}, handler.New(svc, logger, writeRate))
	return exchange{router: router, contacts: contacts, listings: listings}
}

func invitationBody() map[string]any {
	return map[string]any{
		"title":               "  Night market crawl ",
		"days":                []string{"friday", "saturday"},
		"time_slots":          []string{"lateNight"},
		"location":            "Gwangjang market",
		"activity":            "Street food",
		"contact":             "Instagram: gwangjang_local",
		"age_range":           "40s",
		"gender":              "male",
		"languages":           "Korean, Japanese",
		"preferred_gender":    "female",
		"preferred_age_range": "40s",
		"max_participants":    2,
		"privacy_accepted":    true,
	}
}

func TestInvitationFlow(t *testing.T) {
	testutil.Given(t, "a running exchange", func(t *testing.T) {
		ex := newExchange(t, nil)

		testutil.When(t, "a resident publishes an invitation", func(t *testing.T) {
			rr := testutil.DoRequest(ex.router, testutil.NewJSONRequest(t, http.MethodPost, "/invitations", invitationBody()))

			testutil.Then(t, "the author only learns it was submitted", func(t *testing.T) {
				assert.Equal(t, http.StatusCreated, rr.Code)
				assert.JSONEq(t, `{"status":"submitted"}`, rr.Body.String())
				assert.NotEmpty(t, rr.Header().Get("X-Request-ID"))
			})

			testutil.Then(t, "the contact is stored apart from the listing", func(t *testing.T) {
				list, err := ex.listings.ListInvitations(context.Background())
				require.NoError(t, err)
				require.Len(t, list, 1)
				contact, err := ex.contacts.FindByID(context.Background(), list[0].ContactID)
				require.NoError(t, err)
				assert.Equal(t, "Instagram: gwangjang_local", contact.Info)
				assert.Equal(t, "Night market crawl", list[0].Title)
				assert.Equal(t, models.GenderFemale, list[0].PreferredGender)
			})
		})

		testutil.When(t, "a visitor browses invitations", func(t *testing.T) {
			rr := testutil.DoRequest(ex.router, testutil.NewJSONRequest(t, http.MethodGet, "/invitations", nil))

			testutil.Then(t, "preferences and contact data are absent", func(t *testing.T) {
				require.Equal(t, http.StatusOK, rr.Code)
				testutil.AssertNoJSONKey(t, rr, "preferred", "contact")
				assert.NotContains(t, rr.Body.String(), "gwangjang_local")
				assert.Contains(t, rr.Body.String(), `"time":"Friday, Saturday / Late Night"`)
			})
		})

		testutil.When(t, "an invitation has no time slots", func(t *testing.T) {
			body := invitationBody()
			body["time_slots"] = []string{}
			rr := testutil.DoRequest(ex.router, testutil.NewJSONRequest(t, http.MethodPost, "/invitations", body))

			testutil.Then(t, "it is rejected before anything is written", func(t *testing.T) {
				testutil.AssertStatusAndError(t, rr, http.StatusBadRequest, "validation_error")
				n, err := ex.contacts.Count(context.Background())
				require.NoError(t, err)
				assert.Equal(t, 1, n)
			})
		})
	})
}

func TestLocalApplicationFlow(t *testing.T) {
	ex := newExchange(t, nil)

	rr := testutil.DoRequest(ex.router, testutil.NewJSONRequest(t, http.MethodPost, "/visitor-requests", map[string]any{
		"title":             "Weekend in Jeonju",
		"days":              []string{"sunday"},
		"time_slots":        []string{"afternoon"},
		"location":          "Jeonju hanok village",
		"companion_genders": "female",
		"languages":         "English",
		"participants":      3,
		"contact":           "visitor@example.com",
		"privacy_accepted":  true,
	}))
	require.Equal(t, http.StatusCreated, rr.Code)

	list := testutil.DoRequest(ex.router, testutil.NewJSONRequest(t, http.MethodGet, "/visitor-requests", nil))
	resp := testutil.UnmarshalResponse[struct {
		VisitorRequests []models.VisitorRequestView `json:"visitor_requests"`
	}](t, list)
	require.Len(t, resp.VisitorRequests, 1)
	target := resp.VisitorRequests[0]
	testutil.AssertNoJSONKey(t, list, "contact")

	rr = testutil.DoRequest(ex.router, testutil.NewJSONRequest(t, http.MethodPost,
		"/visitor-requests/"+target.ID.String()+"/applications", map[string]any{
			"interested_location": "Bibimbap alley",
			"contact":             "kakao: jeonju_host",
			"languages":           "Korean",
			"privacy_accepted":    true,
		}))
	require.Equal(t, http.StatusCreated, rr.Code)

	apps, err := ex.listings.ListLocalApplications(context.Background())
	require.NoError(t, err)
	require.Len(t, apps, 1)
	assert.Equal(t, 3, apps[0].Participants)
	assert.Equal(t, target.ID, apps[0].VisitorRequestID)
}

func TestPlatformEndpoints(t *testing.T) {
	t.Run("healthz", func(t *testing.T) {
		ex := newExchange(t, nil)
		rr := testutil.DoRequest(ex.router, testutil.NewJSONRequest(t, http.MethodGet, "/healthz", nil))
		assert.Equal(t, http.StatusOK, rr.Code)
	})

	t.Run("readyz reports failing dependencies", func(t *testing.T) {
		ex := newExchange(t, map[string]ReadyCheck{
			"database": func(context.Context) error { return nil },
			"redis":    func(context.Context) error { return errors.New("dial tcp: refused") },
		})
		rr := testutil.DoRequest(ex.router, testutil.NewJSONRequest(t, http.MethodGet, "/readyz", nil))
		assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
		assert.JSONEq(t, `{"status":"unavailable","failing":["redis"]}`, rr.Body.String())
	})

	t.Run("metrics exposes submission counters", func(t *testing.T) {
		ex := newExchange(t, nil)
		testutil.DoRequest(ex.router, testutil.NewJSONRequest(t, http.MethodPost, "/invitations", invitationBody()))
		rr := testutil.DoRequest(ex.router, testutil.NewJSONRequest(t, http.MethodGet, "/metrics", nil))
		require.Equal(t, http.StatusOK, rr.Code)
		assert.True(t, strings.Contains(rr.Body.String(), `lowa_submissions_total{kind="invitation",outcome="submitted"} 1`))
	})

	t.Run("non-JSON submissions are rejected", func(t *testing.T) {
		ex := newExchange(t, nil)
		req := testutil.NewRequestWithBody(t, http.MethodPost, "/invitations", "title=x")
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		rr := testutil.DoRequest(ex.router, req)
		assert.Equal(t, http.StatusUnsupportedMediaType, rr.Code)
	})
}

func TestWriteRateLimitKeysOnConnectionAddress(t *testing.T) {
	testutil.Given(t, "an exchange allowing two submissions per minute", func(t *testing.T) {
		ex := newLimitedExchange(t, nil, 2, nil)

		testutil.When(t, "one client rotates X-Forwarded-For on every submission", func(t *testing.T) {
			counts := map[int]int{}
			for i := 0; i < 10; i++ {
				req := testutil.NewJSONRequest(t, http.MethodPost, "/invitations", invitationBody())
				req.RemoteAddr = "203.0.113.7:40000"
				req.Header.Set("X-Forwarded-For", fmt.Sprintf("10.0.0.%d", i))
				req.Header.Set("X-Real-IP", fmt.Sprintf("10.0.1.%d", i))
				counts[testutil.DoRequest(ex.router, req).Code]++
			}

			testutil.Then(t, "the spoofed headers do not reset the limit", func(t *testing.T) {
				assert.Equal(t, map[int]int{http.StatusCreated: 2, http.StatusTooManyRequests: 8}, counts)
				n, err := ex.contacts.Count(context.Background())
				require.NoError(t, err)
				assert.Equal(t, 2, n)
			})
		})
	})

	testutil.Given(t, "an exchange behind a trusted proxy", func(t *testing.T) {
		ex := newLimitedExchange(t, nil, 1, []netip.Prefix{netip.MustParsePrefix("10.0.0.0/8")})

		testutil.When(t, "the proxy forwards two different clients", func(t *testing.T) {
			codes := make([]int, 0, 2)
			for _, client := range []string{"198.51.100.1", "198.51.100.2"} {
				req := testutil.NewJSONRequest(t, http.MethodPost, "/invitations", invitationBody())
				req.RemoteAddr = "10.0.0.5:443"
				req.Header.Set("X-Forwarded-For", client)
				codes = append(codes, testutil.DoRequest(ex.router, req).Code)
			}

			testutil.Then(t, "each client gets its own budget", func(t *testing.T) {
				assert.Equal(t, []int{http.StatusCreated, http.StatusCreated}, codes)
			})
		})
	})
}
