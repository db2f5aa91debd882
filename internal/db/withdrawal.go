package db

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/lstlabs/lst-staking-service/internal/db/model"
	"github.com/lstlabs/lst-staking-service/internal/types"
	"github.com/lstlabs/lst-staking-service/internal/utils"
)

func (db *Database) withdrawals() *mongo.Collection {
	return db.Client.Database(db.DbName).Collection(model.PendingWithdrawalCollection)
}

func (db *Database) SavePendingWithdrawal(ctx context.Context, withdrawal *types.PendingWithdrawal) error {
	document := model.FromPendingWithdrawal(withdrawal)
	_, err := db.withdrawals().InsertOne(ctx, document)
	if err != nil {
		var writeErr mongo.WriteException
		if errors.As(err, &writeErr) {
			for _, e := range writeErr.WriteErrors {
				if mongo.IsDuplicateKeyError(e) {
					return &DuplicateKeyError{
						Key:     document.Key,
						Message: "Withdrawal already tracked",
					}
				}
			}
		}
		return err
	}
	return nil
}

// FindPendingWithdrawal returns a NotFoundError if the withdrawal is not tracked
func (db *Database) FindPendingWithdrawal(ctx context.Context, key types.WithdrawalKey) (*types.PendingWithdrawal, error) {
	var document model.PendingWithdrawalDocument
	err := db.withdrawals().FindOne(ctx, bson.M{"_id": key.String()}).Decode(&document)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, &NotFoundError{
				Key:     key.String(),
				Message: "Withdrawal not found",
			}
		}
		return nil, err
	}
	return document.ToPendingWithdrawal()
}

func (db *Database) FindPendingWithdrawalsByOwner(ctx context.Context, owner string) ([]*types.PendingWithdrawal, error) {
	filter := bson.M{"owner": strings.ToLower(owner)}
	opts := options.Find().SetSort(bson.D{{Key: "unlock_at", Value: 1}, {Key: "_id", Value: 1}})

	cursor, err := db.withdrawals().Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var documents []model.PendingWithdrawalDocument
	if err = cursor.All(ctx, &documents); err != nil {
		return nil, err
	}

	withdrawals := make([]*types.PendingWithdrawal, 0, len(documents))
	for i := range documents {
		w, err := documents[i].ToPendingWithdrawal()
		if err != nil {
			return nil, err
		}
		withdrawals = append(withdrawals, w)
	}
	return withdrawals, nil
}

func (db *Database) TransitionToClaimingState(ctx context.Context, key types.WithdrawalKey) error {
	return db.transitionState(ctx, key, types.WithdrawalClaiming, utils.QualifiedStatesToClaiming(), nil)
}

func (db *Database) TransitionToClaimedState(ctx context.Context, key types.WithdrawalKey, claimTxHash string) error {
	return db.transitionState(
		ctx, key, types.WithdrawalClaimed, utils.QualifiedStatesToClaimed(),
		map[string]interface{}{"claim_tx_hash": claimTxHash},
	)
}

func (db *Database) RollbackToPendingState(ctx context.Context, key types.WithdrawalKey) error {
	return db.transitionState(ctx, key, types.WithdrawalPending, utils.QualifiedStatesToPending(), nil)
}

// transitionState moves a withdrawal to newState inside a transaction.
// It returns a NotFoundError if the withdrawal is not tracked and an
// InvalidStateTransitionError if it is not in one of the eligible states.
func (db *Database) transitionState(
	ctx context.Context, key types.WithdrawalKey, newState types.WithdrawalState,
	eligiblePreviousState []types.WithdrawalState, additionalUpdates map[string]interface{},
) error {
	client := db.withdrawals()
	transactionWork := func(sessCtx mongo.SessionContext) (interface{}, error) {
		var current model.PendingWithdrawalDocument
		err := client.FindOne(sessCtx, bson.M{"_id": key.String()}).Decode(&current)
		if err != nil {
			if errors.Is(err, mongo.ErrNoDocuments) {
				return nil, &NotFoundError{
					Key:     key.String(),
					Message: "Withdrawal not found",
				}
			}
			return nil, err
		}

		if !slices.Contains(eligiblePreviousState, current.State) {
			return nil, &InvalidStateTransitionError{
				Key:          key.String(),
				CurrentState: current.State.ToString(),
				Message: fmt.Sprintf(
					"Withdrawal in state %s cannot transition to %s", current.State, newState,
				),
			}
		}

		update := bson.M{"state": newState, "updated_at": time.Now().Unix()}
		for field, value := range additionalUpdates {
			update[field] = value
		}
		filter := bson.M{"_id": key.String(), "state": current.State}
		result, err := client.UpdateOne(sessCtx, filter, bson.M{"$set": update})
		if err != nil {
			return nil, err
		}
		if result.MatchedCount == 0 {
			return nil, &InvalidStateTransitionError{
				Key:          key.String(),
				CurrentState: current.State.ToString(),
				Message:      "Withdrawal state changed concurrently",
			}
		}
		return nil, nil
	}

	_, err := TxWithRetries(ctx, &dbTransactionClient{db.Client}, transactionWork)
	return err
}
