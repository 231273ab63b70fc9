package steps

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/cucumber/godog"
	"github.com/shopspring/decimal"

	"github.com/condo-portal/ledger/internal/application/adapter"
	"github.com/condo-portal/ledger/internal/domain/valueobject"
	"github.com/condo-portal/ledger/internal/integration/adapters"
	"github.com/condo-portal/ledger/internal/integration/persistence/model"
	"github.com/condo-portal/ledger/test/integration/mock"
)

func (t *testContext) theAPIServerIsRunning() error {
	resp, err := t.client.Get(t.server.URL + "/health")
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health check returned %d", resp.StatusCode)
	}
	return nil
}

func (t *testContext) todayIs(date string) error {
	day, err := valueobject.ParseDate(date)
	if err != nil {
		return err
	}
	t.timeMock.SetCurrentTime(day.Add(12 * time.Hour))
	return nil
}

func (t *testContext) aCommunityExistsInTimeZone(id, timezone string) error {
	return t.db.DbConn.Create(&model.CommunityModel{ID: id, Name: "Comunidad " + id, Timezone: timezone}).Error
}

func (t *testContext) theCommunityHasConfig(communityID, key, value string) error {
	return t.db.DbConn.Create(&model.CommunityConfigModel{CommunityID: communityID, Key: key, Value: value}).Error
}

func (t *testContext) aResidentLivesIn(id, name, unit, communityID string) error {
	return t.aResidentWithEmailLivesIn(id, name, "", unit, communityID)
}

func (t *testContext) aResidentWithEmailLivesIn(id, name, email, unit, communityID string) error {
	return t.db.DbConn.Create(&model.ResidentModel{
		ID:          id,
		CommunityID: communityID,
		Name:        name,
		Unit:        unit,
		Email:       email,
		Active:      true,
	}).Error
}

func (t *testContext) residentCommunity(residentID string) (string, error) {
	var resident model.ResidentModel
	if err := t.db.DbConn.Where("id = ?", residentID).First(&resident).Error; err != nil {
		return "", fmt.Errorf("resident %q not found: %w", residentID, err)
	}
	return resident.CommunityID, nil
}

func (t *testContext) theResidentHasACharge(residentID, chargeID, amount, date string) error {
	communityID, err := t.residentCommunity(residentID)
	if err != nil {
		return err
	}
	value, err := decimal.NewFromString(amount)
	if err != nil {
		return err
	}
	day, err := valueobject.ParseDate(date)
	if err != nil {
		return err
	}

	return t.db.DbConn.Create(&model.ChargeModel{
		ID:          chargeID,
		ResidentID:  residentID,
		CommunityID: communityID,
		Date:        &day,
		Description: "Mantenimiento",
		Amount:      value,
		CreatedAt:   time.Now().UTC(),
	}).Error
}

func (t *testContext) theResidentHasAPayment(residentID, paymentID, amount, date, status string) error {
	communityID, err := t.residentCommunity(residentID)
	if err != nil {
		return err
	}
	value, err := decimal.NewFromString(amount)
	if err != nil {
		return err
	}
	day, err := valueobject.ParseDate(date)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	return t.db.DbConn.Create(&model.PaymentModel{
		ID:          paymentID,
		ResidentID:  residentID,
		CommunityID: communityID,
		PaymentDate: &day,
		Amount:      value,
		Concept:     "Transferencia",
		Status:      status,
		CreatedAt:   now,
		UpdatedAt:   now,
	}).Error
}

func (t *testContext) theEmailProviderAcceptsMessages() error {
	t.provider.SetResponse(http.MethodPost, "/emails", http.StatusOK, map[string]any{"id": "msg-1"})
	return nil
}

func (t *testContext) issueToken(scope adapter.CommunityScope) error {
	tokens := adapters.NewTokenService(testJWTSecret, "condo-portal")
	token, err := tokens.IssueAccessToken(context.Background(), adapter.TokenClaims{
		Subject: "admin-1",
		Email:   "admin@example.com",
		Scope:   scope,
	}, 15*time.Minute)
	if err != nil {
		return err
	}
	t.accessToken = token
	return nil
}

func (t *testContext) iAmAuthenticatedForAllCommunities() error {
	return t.issueToken(adapter.CommunityScope{})
}

func (t *testContext) iAmAuthenticatedForCommunity(communityID string) error {
	return t.issueToken(adapter.CommunityScope{communityID})
}

func (t *testContext) theHeaderIsEmpty() error {
	t.headers = make(map[string]string)
	t.accessToken = ""
	return nil
}

func (t *testContext) theHeaderContainsTheKeyWith(key, value string) error {
	t.headers[key] = value
	return nil
}

func (t *testContext) iSendARequestTo(method, path string) error {
	return t.executeRequest(method, path, nil)
}

func (t *testContext) iSendARequestToWithBody(method, path string, body *godog.DocString) error {
	var payload []byte
	if body != nil && body.Content != "" {
		payload = []byte(body.Content)
	}
	return t.executeRequest(method, path, payload)
}

func (t *testContext) executeRequest(method, path string, payload []byte) error {
	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequest(method, t.server.URL+path, reader)
	if err != nil {
		return err
	}

	req.Header.Set("Content-Type", "application/json")
	if t.accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+t.accessToken)
	}
	for key, value := range t.headers {
		req.Header.Set(key, value)
	}

	resp, err := t.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	t.response = &response{
		status:      resp.StatusCode,
		contentType: resp.Header.Get("Content-Type"),
	}

	var responseBody map[string]any
	if err := json.Unmarshal(bodyBytes, &responseBody); err != nil {
		t.response.body = string(bodyBytes)
	} else {
		t.response.body = responseBody
	}
	return nil
}

func (t *testContext) theEmailWorkerProcessesTheQueue() error {
	t.injector.EmailWorker.ProcessNow(context.Background())
	return nil
}

func (t *testContext) theResponseStatusShouldBe(expectedStatus int) error {
	if t.response == nil {
		return errors.New("no response received")
	}
	if t.response.status != expectedStatus {
		return fmt.Errorf("expected status %d, got %d (body: %v)", expectedStatus, t.response.status, t.response.body)
	}
	return nil
}

func (t *testContext) theResponseShouldBeJSON() error {
	if t.response == nil {
		return errors.New("no response received")
	}
	if _, ok := t.response.body.(map[string]any); !ok {
		return fmt.Errorf("response is not JSON: %v", t.response.body)
	}
	return nil
}

func (t *testContext) theResponseContentTypeShouldBe(expected string) error {
	if t.response == nil {
		return errors.New("no response received")
	}
	if t.response.contentType != expected {
		return fmt.Errorf("expected content type %q, got %q", expected, t.response.contentType)
	}
	return nil
}

func (t *testContext) jsonBody() (map[string]any, error) {
	if t.response == nil {
		return nil, errors.New("no response received")
	}
	body, ok := t.response.body.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("response is not a JSON object: %v", t.response.body)
	}
	return body, nil
}

func (t *testContext) theResponseShouldContain(field string) error {
	body, err := t.jsonBody()
	if err != nil {
		return err
	}
	if _, exists := body[field]; !exists {
		return fmt.Errorf("response does not contain field '%s': %v", field, body)
	}
	return nil
}

func (t *testContext) theResponseFieldShouldBe(field, expectedValue string) error {
	body, err := t.jsonBody()
	if err != nil {
		return err
	}

	value := getFieldValue(body, field)
	if value == nil {
		return fmt.Errorf("field '%s' not found in response: %v", field, body)
	}

	actualValue := fmt.Sprintf("%v", value)
	if actualValue != expectedValue {
		return fmt.Errorf("field '%s' expected '%s', got '%s'", field, expectedValue, actualValue)
	}
	return nil
}

func (t *testContext) theResponseFieldShouldExist(field string) error {
	body, err := t.jsonBody()
	if err != nil {
		return err
	}
	if getFieldValue(body, field) == nil {
		return fmt.Errorf("field '%s' not found in response: %v", field, body)
	}
	return nil
}

func (t *testContext) theResponseFieldShouldHaveItems(field string, quantity int) error {
	body, err := t.jsonBody()
	if err != nil {
		return err
	}
	items, ok := getFieldValue(body, field).([]any)
	if !ok {
		return fmt.Errorf("field '%s' is not a list: %v", field, body)
	}
	if len(items) != quantity {
		return fmt.Errorf("field '%s' expected %d items, got %d", field, quantity, len(items))
	}
	return nil
}

func (t *testContext) countRows(table string, criteria map[string]any) (int, error) {
	entity, ok := t.db.GetModel(table)
	if !ok {
		return 0, fmt.Errorf("table '%s' not found in models", table)
	}

	entityType := reflect.TypeOf(entity).Elem()
	entitySlicePtr := reflect.New(reflect.SliceOf(entityType))

	query := t.db.DbConn.Unscoped()
	for key, value := range criteria {
		query = query.Where(fmt.Sprintf("%s = ?", key), value)
	}
	if err := query.Find(entitySlicePtr.Interface()).Error; err != nil {
		return 0, err
	}
	return entitySlicePtr.Elem().Len(), nil
}

func (t *testContext) theDbShouldContainObjectsInTheTable(quantity int, table string) error {
	count, err := t.countRows(table, nil)
	if err != nil {
		return err
	}
	if count != quantity {
		return fmt.Errorf("expected %d objects in '%s', got %d", quantity, table, count)
	}
	return nil
}

func (t *testContext) theDbShouldContainObjectsInWithTheValues(quantity int, table string, content *godog.DocString) error {
	var criteria map[string]any
	if err := json.Unmarshal([]byte(content.Content), &criteria); err != nil {
		return err
	}

	count, err := t.countRows(table, criteria)
	if err != nil {
		return err
	}
	if count != quantity {
		return fmt.Errorf("expected %d objects in '%s' with criteria %v, got %d", quantity, table, criteria, count)
	}
	return nil
}

func (t *testContext) theReportCacheShouldHoldEntries(quantity int) error {
	count, err := mock.KeyCount(t.redis, "ledger:delinquents:*")
	if err != nil {
		return err
	}
	if count != quantity {
		return fmt.Errorf("expected %d cached reports, got %d", quantity, count)
	}
	return nil
}

func (t *testContext) theEmailProviderShouldHaveReceivedRequests(quantity int) error {
	count := t.provider.RequestCount(http.MethodPost, "/emails")
	if count != quantity {
		return fmt.Errorf("expected %d requests to the email provider, got %d", quantity, count)
	}
	return nil
}

func getFieldValue(object any, dotSeparatedField string) any {
	if object == nil {
		return nil
	}

	var field any = object
	for _, currentField := range strings.Split(dotSeparatedField, ".") {
		if field == nil {
			return nil
		}

		if i, err := strconv.Atoi(currentField); err == nil {
			arr, ok := field.([]any)
			if !ok || i >= len(arr) {
				return nil
			}
			field = arr[i]
			continue
		}

		m, ok := field.(map[string]any)
		if !ok {
			return nil
		}
		field = m[currentField]
	}

	return field
}
