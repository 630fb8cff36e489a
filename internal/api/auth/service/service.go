package authService

import (
	"AgeGenderDetector/internal/api/auth"
	authRepository "AgeGenderDetector/internal/api/auth/repository"
	"AgeGenderDetector/internal/entity"
	"AgeGenderDetector/pkg/bcrypt"
	"AgeGenderDetector/pkg/redis"
	"AgeGenderDetector/pkg/utils"
	"context"
	"time"

	"github.com/sirupsen/logrus"
)

const DefaultSessionTTL = 24 * time.Hour

type AuthService interface {
	User() UserDomain
	Auth() AuthDomain
	GetRepository() authRepository.Repository
}

type UserDomain interface {
	RegisterUser(c context.Context, req auth.SignupRequest) (entity.User, error)
	LoadUser(c context.Context, id string) (entity.User, error)
}

type AuthDomain interface {
	Login(c context.Context, req auth.LoginRequest) (auth.LoginResponse, error)
	Logout(c context.Context, sessionID string) error
}

type authService struct {
	log            *logrus.Logger
	authRepository authRepository.Repository

	userDomain UserDomain
	authDomain AuthDomain
}

func (a *authService) User() UserDomain {
	return a.userDomain
}

func (a *authService) Auth() AuthDomain {
	return a.authDomain
}

func (a *authService) GetRepository() authRepository.Repository {
	return a.authRepository
}

type userDomainImpl struct {
	log         *logrus.Logger
	repo        authRepository.Repository
	bcryptUtils bcrypt.IBcrypt
	utils       utils.IUtils
}

type authDomainImpl struct {
	log         *logrus.Logger
	repo        authRepository.Repository
	sessions    redis.ISessionStore
	bcryptUtils bcrypt.IBcrypt
	utils       utils.IUtils
	sessionTTL  time.Duration
	now         func() time.Time
}

func New(log *logrus.Logger,
	authRepo authRepository.Repository,
	sessions redis.ISessionStore,
	bcryptUtils bcrypt.IBcrypt,
	utils utils.IUtils,
	sessionTTL time.Duration,
) AuthService {
	if sessionTTL <= 0 {
		sessionTTL = DefaultSessionTTL
	}

	return &authService{
		log:            log,
		authRepository: authRepo,

		userDomain: &userDomainImpl{log: log, repo: authRepo, bcryptUtils: bcryptUtils, utils: utils},
		authDomain: &authDomainImpl{
			log:         log,
			repo:        authRepo,
			sessions:    sessions,
			bcryptUtils: bcryptUtils,
			utils:       utils,
			sessionTTL:  sessionTTL,
			now:         time.Now,
		},
	}
}
