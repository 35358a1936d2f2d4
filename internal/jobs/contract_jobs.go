package jobs

import (
	"context"
	"time"

	"carshare-backend/internal/logger"
)

// ActivateDueContracts promotes CONFIRMED contracts whose start date has
// arrived to ACTIVE. It is the batch counterpart of the read-time
// reconciliation the contract service performs, so contracts nobody reads
// still activate on time.
func (jr *JobRunner) ActivateDueContracts() {
	jr.runWithRecovery("ActivateDueContracts", func() {
		ctx := context.Background()

		query := `
			UPDATE contracts
			SET state = 'ACTIVE',
			    updated_on = NOW()
			WHERE state = 'CONFIRMED'
			  AND start_date <= $1
			RETURNING id, client_id, car_id
		`

		rows, err := jr.db.QueryContext(ctx, query, time.Now().Format("2006-01-02"))
		if err != nil {
			logger.Error("Failed to activate due contracts", "error", err)
			return
		}
		defer rows.Close()

		count := 0
		for rows.Next() {
			var id, clientID, carID int32
			if err := rows.Scan(&id, &clientID, &carID); err != nil {
				logger.Error("Failed to scan activated contract", "error", err)
				continue
			}
			logger.Debug("Activated contract", "contract_id", id, "client_id", clientID, "car_id", carID)
			count++
		}
		if err := rows.Err(); err != nil {
			logger.Error("Error iterating activated contracts", "error", err)
			return
		}

		logger.Info("Activated due contracts", "count", count)
	})
}

// CompleteFinishedContracts moves ACTIVE contracts past their end date to
// COMPLETED.
func (jr *JobRunner) CompleteFinishedContracts() {
	jr.runWithRecovery("CompleteFinishedContracts", func() {
		ctx := context.Background()

		query := `
			UPDATE contracts
			SET state = 'COMPLETED',
			    updated_on = NOW()
			WHERE state = 'ACTIVE'
			  AND end_date < $1
			RETURNING id, client_id, car_id, end_date
		`

		rows, err := jr.db.QueryContext(ctx, query, time.Now().Format("2006-01-02"))
		if err != nil {
			logger.Error("Failed to complete finished contracts", "error", err)
			return
		}
		defer rows.Close()

		count := 0
		for rows.Next() {
			var id, clientID, carID int32
			var endDate time.Time
			if err := rows.Scan(&id, &clientID, &carID, &endDate); err != nil {
				logger.Error("Failed to scan completed contract", "error", err)
				continue
			}
			logger.Debug("Completed contract", "contract_id", id, "client_id", clientID, "car_id", carID, "end_date", endDate.Format("2006-01-02"))
			count++
		}
		if err := rows.Err(); err != nil {
			logger.Error("Error iterating completed contracts", "error", err)
			return
		}

		logger.Info("Completed finished contracts", "count", count)
	})
}

// SendPickupReminders emails clients whose confirmed contract starts tomorrow.
func (jr *JobRunner) SendPickupReminders() {
	jr.runWithRecovery("SendPickupReminders", func() {
		ctx := context.Background()
		tomorrow := time.Now().AddDate(0, 0, 1).Format("2006-01-02")

		query := `
			SELECT c.id, cl.email, cl.name
			FROM contracts c
			JOIN clients cl ON cl.id = c.client_id
			WHERE c.state = 'CONFIRMED'
			  AND c.start_date = $1
		`

		rows, err := jr.db.QueryContext(ctx, query, tomorrow)
		if err != nil {
			logger.Error("Failed to query contracts starting tomorrow", "error", err)
			return
		}
		defer rows.Close()

		type reminder struct {
			contractID int32
			email      string
			name       string
		}
		var reminders []reminder
		for rows.Next() {
			var rem reminder
			if err := rows.Scan(&rem.contractID, &rem.email, &rem.name); err != nil {
				logger.Error("Failed to scan pickup reminder row", "error", err)
				continue
			}
			reminders = append(reminders, rem)
		}
		if err := rows.Err(); err != nil {
			logger.Error("Error iterating pickup reminders", "error", err)
			return
		}

		sent := 0
		for _, rem := range reminders {
			contract, err := jr.store.ContractRepository.GetByID(ctx, rem.contractID)
			if err != nil {
				logger.Error("Failed to load contract for reminder", "contract_id", rem.contractID, "error", err)
				continue
			}
			if err := jr.emailSvc.SendPickupReminder(ctx, rem.email, rem.name, contract); err != nil {
				logger.Error("Failed to send pickup reminder", "contract_id", rem.contractID, "error", err)
				continue
			}
			sent++
		}

		logger.Info("Sent pickup reminders", "count", sent)
	})
}
