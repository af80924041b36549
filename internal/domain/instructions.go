package domain

import "fmt"

// PaymentInstructions инструкция для клиента по выбранному способу оплаты
type PaymentInstructions struct {
	Title string   `json:"title"`
	Steps []string `json:"steps"`
	Note  string   `json:"note"`
}

const depositSlipNote = "Email the deposit slip to payments@eventbooking.com"

// InstructionsFor возвращает инструкцию по способу оплаты; для неизвестного способа общую
func InstructionsFor(method PaymentMethod, amount int64, phoneNumber *string) PaymentInstructions {
	amountStep := fmt.Sprintf("Enter amount: %d %s", amount, DefaultCurrency)
	phoneStep := "Enter recipient number"
	if phoneNumber != nil && *phoneNumber != "" {
		phoneStep = "Enter phone number: " + *phoneNumber
	}

	switch method {
	case MethodTelebirr:
		return PaymentInstructions{
			Title: "Telebirr Payment Instructions",
			Steps: []string{
				"Open your Telebirr app",
				`Go to "Send Money"`,
				amountStep,
				phoneStep,
				`Add note: "Event Booking Payment"`,
				"Confirm and complete payment",
			},
			Note: "Payment will be verified automatically within 2-3 minutes.",
		}
	case MethodCBE:
		return PaymentInstructions{
			Title: "CBE Birr Payment Instructions",
			Steps: []string{
				"Dial *847# on your phone",
				`Select "Send Money"`,
				amountStep,
				phoneStep,
				"Confirm transaction with your PIN",
			},
			Note: "Keep the transaction reference for verification.",
		}
	case MethodAbisiniya:
		return bankDeposit("Abyssinia Bank", "1234567890", amount)
	case MethodCommercial:
		return bankDeposit("Commercial Bank", "0987654321", amount)
	default:
		return PaymentInstructions{
			Title: "Payment Instructions",
			Steps: []string{"Contact support for payment instructions"},
			Note:  "Payment method not recognized",
		}
	}
}

func bankDeposit(bank, account string, amount int64) PaymentInstructions {
	return PaymentInstructions{
		Title: bank + " Payment Instructions",
		Steps: []string{
			"Visit " + bank + " branch or use internet banking",
			"Make deposit to account: " + account,
			fmt.Sprintf("Amount: %d %s", amount, DefaultCurrency),
			"Use your phone number as reference",
		},
		Note: depositSlipNote,
	}
}
