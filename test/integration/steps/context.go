// Package steps provides step definitions for BDD integration tests.
package steps

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"time"

	"github.com/cucumber/godog"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/condo-portal/ledger/config"
	"github.com/condo-portal/ledger/internal/infra/dependency"
	"github.com/condo-portal/ledger/internal/integration/persistence/model"
	"github.com/condo-portal/ledger/test/integration/mock"
)

const testJWTSecret = "test-jwt-secret-key-for-testing-purposes"

// suite holds the resources shared by every scenario.
type suite struct {
	db       *mock.Db
	redis    *redis.Client
	timeMock *mock.Time
	provider *mock.ApiMock
	injector *dependency.Injector
	server   *httptest.Server
}

var (
	shared     *suite
	sharedInit sync.Once
)

// testContext holds the state of one scenario.
type testContext struct {
	*suite
	client      *http.Client
	headers     map[string]string
	accessToken string
	response    *response
}

type response struct {
	status      int
	contentType string
	body        any
}

func startSuite() *suite {
	sharedInit.Do(func() {
		gin.SetMode(gin.TestMode)

		s := &suite{
			db: mock.NewDb("condo_ledger", map[string]any{
				"communities":      &model.CommunityModel{},
				"residents":        &model.ResidentModel{},
				"community_config": &model.CommunityConfigModel{},
				"charges":          &model.ChargeModel{},
				"payments":         &model.PaymentModel{},
				"email_queue":      &model.EmailQueueModel{},
			}),
			redis:    mock.NewRedis(),
			timeMock: mock.NewTime(),
			provider: mock.NewApiServer(),
		}
		s.provider.Start()

		cfg := config.Load()
		cfg.Server.Environment = "test"
		cfg.JWT.Secret = testJWTSecret
		cfg.Email.ResendAPIKey = "re_test_key"
		cfg.Email.ResendBaseURL = s.provider.GetUrl()
		cfg.Email.WorkerEnabled = false
		cfg.Ledger.DefaultTimezone = "UTC"

		injector, err := dependency.NewInjector(cfg, s.db.DbConn, s.redis, func() bool {
			return s.db.DbConn != nil
		}, dependency.WithClock(s.timeMock))
		if err != nil {
			panic("failed to wire dependencies: " + err.Error())
		}
		s.injector = injector
		s.server = httptest.NewServer(injector.Router.Setup(cfg.Server.Environment))

		shared = s
	})
	return shared
}

// InitializeTestSuite sets up resources before any scenarios run.
func InitializeTestSuite(ctx *godog.TestSuiteContext) {
	ctx.BeforeSuite(func() {
		startSuite()
	})

	ctx.AfterSuite(func() {
		if shared != nil {
			shared.server.Close()
			shared.provider.Close()
		}
	})
}

// InitializeScenario registers all step definitions.
func InitializeScenario(ctx *godog.ScenarioContext) {
	test := &testContext{
		suite:  startSuite(),
		client: &http.Client{Timeout: 10 * time.Second},
	}

	ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		return ctx, test.before()
	})

	// Background steps
	ctx.Given(`^the API server is running$`, test.theAPIServerIsRunning)
	ctx.Given(`^today is "([^"]*)"$`, test.todayIs)

	// Data setup steps
	ctx.Given(`^a community "([^"]*)" exists in time zone "([^"]*)"$`, test.aCommunityExistsInTimeZone)
	ctx.Given(`^the community "([^"]*)" has config "([^"]*)" set to "([^"]*)"$`, test.theCommunityHasConfig)
	ctx.Given(`^a resident "([^"]*)" named "([^"]*)" lives in unit "([^"]*)" of "([^"]*)"$`, test.aResidentLivesIn)
	ctx.Given(`^a resident "([^"]*)" named "([^"]*)" with email "([^"]*)" lives in unit "([^"]*)" of "([^"]*)"$`, test.aResidentWithEmailLivesIn)
	ctx.Given(`^the resident "([^"]*)" has a charge "([^"]*)" of "([^"]*)" dated "([^"]*)"$`, test.theResidentHasACharge)
	ctx.Given(`^the resident "([^"]*)" has a payment "([^"]*)" of "([^"]*)" dated "([^"]*)" with status "([^"]*)"$`, test.theResidentHasAPayment)
	ctx.Given(`^the email provider accepts messages$`, test.theEmailProviderAcceptsMessages)

	// Auth steps
	ctx.Given(`^I am authenticated for all communities$`, test.iAmAuthenticatedForAllCommunities)
	ctx.Given(`^I am authenticated for community "([^"]*)"$`, test.iAmAuthenticatedForCommunity)
	ctx.Given(`^the header is empty$`, test.theHeaderIsEmpty)
	ctx.Given(`^the header contains the key "([^"]*)" with "([^"]*)"$`, test.theHeaderContainsTheKeyWith)

	// Request steps
	ctx.When(`^I send a "([^"]*)" request to "([^"]*)"$`, test.iSendARequestTo)
	ctx.When(`^I send a "([^"]*)" request to "([^"]*)" with body:$`, test.iSendARequestToWithBody)
	ctx.When(`^the email worker processes the queue$`, test.theEmailWorkerProcessesTheQueue)

	// Response assertion steps
	ctx.Then(`^the response status should be (\d+)$`, test.theResponseStatusShouldBe)
	ctx.Then(`^the response should be JSON$`, test.theResponseShouldBeJSON)
	ctx.Then(`^the response content type should be "([^"]*)"$`, test.theResponseContentTypeShouldBe)
	ctx.Then(`^the response should contain "([^"]*)"$`, test.theResponseShouldContain)
	ctx.Then(`^the response field "([^"]*)" should be "([^"]*)"$`, test.theResponseFieldShouldBe)
	ctx.Then(`^the response field "([^"]*)" should exist$`, test.theResponseFieldShouldExist)
	ctx.Then(`^the response field "([^"]*)" should have (\d+) items?$`, test.theResponseFieldShouldHaveItems)

	// Side effect assertion steps
	ctx.Then(`^the db should contain (\d+) objects in the "([^"]*)" table$`, test.theDbShouldContainObjectsInTheTable)
	ctx.Then(`^the db should contain (\d+) objects in "([^"]*)" with the values$`, test.theDbShouldContainObjectsInWithTheValues)
	ctx.Then(`^the report cache should hold (\d+) entr(?:y|ies)$`, test.theReportCacheShouldHoldEntries)
	ctx.Then(`^the email provider should have received (\d+) requests?$`, test.theEmailProviderShouldHaveReceivedRequests)
}

func (t *testContext) before() error {
	t.headers = make(map[string]string)
	t.accessToken = ""
	t.response = nil
	t.timeMock.Reset()
	t.provider.Reset()

	if err := mock.ClearRedis(t.redis); err != nil {
		return err
	}
	return t.db.ClearDB()
}
