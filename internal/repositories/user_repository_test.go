package repositories

import (
	"testing"
	"time"

	"finance-ledger/internal/database"
	"finance-ledger/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

func TestUserRepository(t *testing.T) {
	suite.Run(t, new(UserRepositorySuite))
}

type UserRepositorySuite struct {
	suite.Suite
	db   *database.DB
	repo UserRepositoryInterface
}

func (s *UserRepositorySuite) SetupTest() {
	s.db = database.SetupTestDB(s.T())
	s.repo = NewUserRepository(s.db.DB)
}

func (s *UserRepositorySuite) TearDownTest() {
	database.CleanupTestDB(s.T(), s.db)
}

func (s *UserRepositorySuite) TestUserRepository_Create() {
	user := models.NewUser(gofakeit.Username(), "hashed_secret")

	err := s.repo.Create(user)
	s.NoError(err)
	s.NotEqual(uuid.Nil, user.ID)
	s.NotZero(user.CreatedAt)
	s.NotZero(user.UpdatedAt)
	s.True(user.IsNew())
}

func (s *UserRepositorySuite) TestUserRepository_CreateDuplicate() {
	s.Require().NoError(s.repo.Create(models.NewUser("alice", "hashed_secret")))

	err := s.repo.Create(models.NewUser("alice", "other_hash"))
	s.ErrorIs(err, ErrUserAlreadyExists)
}

func (s *UserRepositorySuite) TestUserRepository_GetByName() {
	user := models.NewUser("Alice", "hashed_secret")
	s.Require().NoError(s.repo.Create(user))

	found, err := s.repo.GetByName("alice")
	s.NoError(err)
	s.Equal(user.ID, found.ID)
	s.Equal("hashed_secret", found.SecretHash)

	_, err = s.repo.GetByName("nobody")
	s.Equal(ErrUserNotFound, err)

	exists, err := s.repo.ExistsByName("ALICE")
	s.NoError(err)
	s.True(exists)
}

func (s *UserRepositorySuite) TestUserRepository_Update() {
	user := models.NewUser("alice", "hashed_secret")
	s.Require().NoError(s.repo.Create(user))

	user.SecretHash = "rotated_hash"
	s.Require().NoError(s.repo.Update(user))

	found, err := s.repo.GetByID(user.ID)
	s.NoError(err)
	s.Equal("rotated_hash", found.SecretHash)

	ghost := models.NewUser("ghost", "hash")
	ghost.ID = uuid.New()
	s.Equal(ErrUserNotFound, s.repo.Update(ghost))
}

func (s *UserRepositorySuite) TestUserRepository_UpdateLastLogin() {
	user := models.NewUser("alice", "hashed_secret")
	s.Require().NoError(s.repo.Create(user))

	at := time.Date(2025, 5, 1, 9, 30, 0, 0, time.UTC)
	s.Require().NoError(s.repo.UpdateLastLogin(user.ID, at))

	found, err := s.repo.GetByID(user.ID)
	s.Require().NoError(err)
	s.False(found.IsNew())
	s.True(at.Equal(*found.LastLoginAt))

	s.Equal(ErrUserNotFound, s.repo.UpdateLastLogin(uuid.New(), at))
}

func (s *UserRepositorySuite) TestUserRepository_ActivateDeactivate() {
	alice := models.NewUser("alice", "hashed_secret")
	bob := models.NewUser("bob", "hashed_secret")
	s.Require().NoError(s.repo.Create(alice))
	s.Require().NoError(s.repo.Create(bob))

	s.Require().NoError(s.repo.Deactivate(bob.ID))

	active, err := s.repo.ListAll(false)
	s.Require().NoError(err)
	s.Require().Len(active, 1)
	s.Equal("alice", active[0].Name)

	all, err := s.repo.ListAll(true)
	s.Require().NoError(err)
	s.Len(all, 2)

	s.Require().NoError(s.repo.Activate(bob.ID))
	found, err := s.repo.GetByID(bob.ID)
	s.Require().NoError(err)
	s.True(found.Active)

	s.Equal(ErrUserNotFound, s.repo.Deactivate(uuid.New()))
}

func (s *UserRepositorySuite) TestUserRepository_DeleteRemovesLedgerRows() {
	user := models.NewUser("alice", "hashed_secret")
	s.Require().NoError(s.repo.Create(user))
	category := database.CreateTestCategory(s.T(), s.db, "Food")

	s.Require().NoError(s.db.Create(models.NewTransaction(user.ID, models.TransactionKindExpense,
		decimal.NewFromInt(10), time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), "Lunch")).Error)
	s.Require().NoError(s.db.Create(models.NewBudget(user.ID, category.ID, decimal.NewFromInt(100), 1, 2025)).Error)

	s.Require().NoError(s.repo.Delete(user.ID))

	var transactions, budgets int64
	s.Require().NoError(s.db.Model(&models.Transaction{}).Where("user_id = ?", user.ID).Count(&transactions).Error)
	s.Require().NoError(s.db.Model(&models.Budget{}).Where("user_id = ?", user.ID).Count(&budgets).Error)
	s.Zero(transactions)
	s.Zero(budgets)

	_, err := s.repo.GetByID(user.ID)
	s.Equal(ErrUserNotFound, err)
	s.Equal(ErrUserNotFound, s.repo.Delete(user.ID))
}
