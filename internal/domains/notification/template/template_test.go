package template_test

import (
	"fmt"
	"rento/internal/domains/notification/model"
	"rento/internal/domains/notification/template"
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixtureVars = map[string]string{
	template.VarActorName: "Dana",
	template.VarItemTitle: "Canon EOS R6",
	template.VarStartDate: "2024-01-01",
	template.VarEndDate:   "2024-01-04",
	template.VarPreview:   "Is the lens included?",
}

func TestRender_Golden(t *testing.T) {
	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)

	for _, typ := range model.Types {
		t.Run(string(typ), func(t *testing.T) {
			rendered, err := template.Render(typ, fixtureVars)
			require.NoError(t, err)

			out := fmt.Sprintf("title: %s\nmessage: %s\naction: %s\n", rendered.Title, rendered.Message, rendered.Action)
			g.Assert(t, string(typ), []byte(out))
		})
	}
}

func TestRender_ActionsMatchDeepLinks(t *testing.T) {
	tests := map[model.Type]string{
		model.TypeBookingRequest:   model.ActionOpenBookingRequest,
		model.TypeBookingApproved:  model.ActionOpenBooking,
		model.TypeBookingRejected:  model.ActionOpenBooking,
		model.TypeBookingCancelled: model.ActionOpenBooking,
		model.TypeBookingCompleted: model.ActionOpenBooking,
		model.TypeListingDeleted:   model.ActionListingRemoved,
		model.TypeNewMessage:       model.ActionOpenChat,
	}

	for typ, action := range tests {
		rendered, err := template.Render(typ, fixtureVars)
		require.NoError(t, err)
		assert.Equal(t, action, rendered.Action, typ)
	}
}

func TestRender_MissingVariable(t *testing.T) {
	_, err := template.Render(model.TypeBookingApproved, map[string]string{template.VarItemTitle: "Tent"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "start_date")
}

func TestRender_UnknownType(t *testing.T) {
	_, err := template.Render(model.Type("booking_exploded"), fixtureVars)

	assert.ErrorIs(t, err, template.ErrUnknownType)
}

func TestParse(t *testing.T) {
	t.Run("missing types", func(t *testing.T) {
		_, err := template.Parse([]byte("booking_request:\n  title: a\n  message: b\n  action: c\n"))

		require.ErrorIs(t, err, template.ErrMissingTemplates)
		assert.Contains(t, err.Error(), string(model.TypeNewMessage))
	})

	t.Run("incomplete entry", func(t *testing.T) {
		_, err := template.Parse([]byte("booking_request:\n  title: a\n"))

		assert.ErrorIs(t, err, template.ErrIncompleteEntry)
	})

	t.Run("broken template", func(t *testing.T) {
		_, err := template.Parse([]byte("booking_request:\n  title: \"{{.x\"\n  message: b\n  action: c\n"))

		assert.Error(t, err)
	})

	t.Run("not yaml", func(t *testing.T) {
		_, err := template.Parse([]byte("\t- ["))

		assert.Error(t, err)
	})
}

func TestPreview(t *testing.T) {
	assert.Equal(t, "hello there", template.Preview("  hello\n there "))

	long := strings.Repeat("a", 300)
	preview := template.Preview(long)

	assert.Equal(t, 120, len([]rune(preview)))
	assert.True(t, strings.HasSuffix(preview, "…"))
}
