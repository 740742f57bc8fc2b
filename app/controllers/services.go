package controllers

import (
	"sync"

	"github.com/VoxFoxApp/VoxFox/app/repository"
	"github.com/VoxFoxApp/VoxFox/internal/pkg/payments"
	"github.com/VoxFoxApp/VoxFox/internal/pkg/quota"
	"github.com/VoxFoxApp/VoxFox/internal/pkg/voiceprovider"
)

// Controller-level singletons. Built lazily so tests can exercise the
// underlying services with fakes without touching this wiring.
var (
	quotaOnce    sync.Once
	quotaSvc     *quota.Service
	paymentsOnce sync.Once
	paymentsSvc  *payments.Service
	voiceOnce    sync.Once
	voiceClient  *voiceprovider.Client
)

func getQuotaService() *quota.Service {
	quotaOnce.Do(func() {
		quotaSvc = quota.NewService(repository.GetGlobalFactory().GetUserRepository())
	})
	return quotaSvc
}

func getPaymentsService() *payments.Service {
	paymentsOnce.Do(func() {
		paymentsSvc = payments.NewServiceFromDB(repository.GetGlobalFactory().GetDB())
	})
	return paymentsSvc
}

func getVoiceClient() *voiceprovider.Client {
	voiceOnce.Do(func() {
		voiceClient = voiceprovider.NewClientFromEnv()
	})
	return voiceClient
}
