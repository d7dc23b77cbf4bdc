package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/secangkircinta/scug/internal/domain/entities"
	"github.com/secangkircinta/scug/internal/ports"
)

func TestMemberService(t *testing.T) {
	ctx := context.Background()
	env := setup(t)
	svc := env.members()

	sari, err := svc.CreateMember(ctx, ports.CreateMemberRequest{Name: "Sari", Phone: "(0812) 3456-789"})
	require.NoError(t, err)
	assert.Equal(t, "08123456789", sari.Phone)

	_, err = svc.CreateMember(ctx, ports.CreateMemberRequest{Name: "Imposter", Phone: "0812.3456.789"})
	assert.ErrorIs(t, err, entities.ErrPhoneTaken)

	budi, err := svc.CreateMember(ctx, ports.CreateMemberRequest{Name: "Budi", Phone: "0813"})
	require.NoError(t, err)

	phone := "0812 3456 789"
	_, err = svc.UpdateMember(ctx, budi.ID, ports.UpdateMemberRequest{Phone: &phone})
	assert.ErrorIs(t, err, entities.ErrPhoneTaken)

	name := "Budi Santoso"
	updated, err := svc.UpdateMember(ctx, budi.ID, ports.UpdateMemberRequest{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, name, updated.Name)

	search := "sant"
	members, total, err := svc.ListMembers(ctx, ports.MemberFilter{Search: &search})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, members, 1)
	assert.Equal(t, budi.ID, members[0].ID)

	require.NoError(t, svc.DeleteMember(ctx, sari.ID))
	_, total, err = svc.ListMembers(ctx, ports.MemberFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)

	_, err = svc.UpdateMember(ctx, sari.ID, ports.UpdateMemberRequest{Name: &name})
	assert.ErrorIs(t, err, entities.ErrMemberNotFound)

	// the phone of a deleted member is free again
	again, err := svc.CreateMember(ctx, ports.CreateMemberRequest{Name: "Sari", Phone: "08123456789"})
	require.NoError(t, err)
	assert.NotEqual(t, sari.ID, again.ID)

	_, err = svc.CreateMember(ctx, ports.CreateMemberRequest{Name: "", Phone: ""})
	assert.ErrorIs(t, err, entities.ErrValidation)
}
