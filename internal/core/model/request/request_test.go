package request_test

import (
	"encoding/json"
	"testing"

	. "github.com/onsi/gomega"
	"github.com/stretchr/testify/assert"

	"tasksapi/internal/core/model/request"
)

func TestTaskUpdate_DistinguishesAbsentFromNull(t *testing.T) {
	RegisterTestingT(t)

	var params request.TaskUpdate
	err := json.Unmarshal([]byte(`{"description": null}`), &params)

	assert.NoError(t, err)
	Expect(params.Supplied("description")).To(BeTrue())
	Expect(params.Description).To(BeNil())
	Expect(params.Supplied("title")).To(BeFalse())
	Expect(params.Supplied("completed")).To(BeFalse())
}

func TestTaskUpdate_SuppliedValues(t *testing.T) {
	RegisterTestingT(t)

	var params request.TaskUpdate
	err := json.Unmarshal([]byte(`{"title": "Renamed", "completed": true}`), &params)

	assert.NoError(t, err)
	Expect(params.Supplied("title")).To(BeTrue())
	Expect(*params.Title).To(Equal("Renamed"))
	Expect(params.Supplied("completed")).To(BeTrue())
	Expect(*params.Completed).To(BeTrue())
	Expect(params.Supplied("description")).To(BeFalse())
}

func TestTaskUpdate_EmptyBody(t *testing.T) {
	RegisterTestingT(t)

	var params request.TaskUpdate
	err := json.Unmarshal([]byte(`{}`), &params)

	assert.NoError(t, err)
	Expect(params.Supplied("title")).To(BeFalse())
	Expect(params.Supplied("description")).To(BeFalse())
	Expect(params.Supplied("completed")).To(BeFalse())
}

func TestTaskUpdate_MalformedJSON(t *testing.T) {
	RegisterTestingT(t)

	var params request.TaskUpdate
	err := json.Unmarshal([]byte(`{"title":`), &params)

	Expect(err).To(HaveOccurred())
}
