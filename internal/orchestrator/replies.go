package orchestrator

// Canned Hinglish replies. Fixed strings keep behavior deterministic
// when the NLU service is down.
const (
	replyStoreDown     = "Database connected nahi hai. Thodi der baad try karo. 🙏"
	replyInternalError = "Kuch gadbad ho gayi. Dobara try karo. 🙏"
	replyVoiceFailed   = "Voice message samajh nahi aaya. Please text mein bhej do. 🙏"
	replyScreenshot    = "Payment screenshot mil gaya! ✅ Verify karke confirm karenge. Jaldi ke liye UTR number bhi bhej do."

	promptInvoiceCustomer = "Kiska invoice banana hai? Customer ka naam batao."
	promptInvoiceAmount   = "Kitne ka invoice banana hai? Amount ya quantity (meter) batao."
	promptPaymentAmount   = "Kitna payment aaya hai?"
	promptPaymentCustomer = "Kiska payment hai? Naam ke saath amount batao (jaise: Ramesh ne 5000 bheja)."
	promptCustomerName    = "Naye customer ka naam kya hai?"
	promptBulkClarify     = "Order samajh nahi aaya. Aise bhejo: \"1000m - 400 red silk, 300 blue cotton, 300 green polyester\""

	replyMenu = `Main aapka business assistant hoon! 🙏

Main ye kar sakta hoon:
📋 Invoice banana — "Ramesh ko 5000 ka invoice banao"
📦 Stock check — "silk ka stock kitna hai"
📒 Udhaar hisaab — "Suresh ka udhaar batao"
💰 Payment record — "Ramesh ne 2000 bheje"
⏰ Reminder — "overdue walo ko yaad dilao"
🧾 Bulk order — "1000m - 400 red silk, 300 blue cotton"`
)

// assistantPrompt steers free-form answers for general queries.
const assistantPrompt = `You are a helpful WhatsApp assistant for an Indian textile retail shop.
Reply in friendly Hinglish (Hindi written in Latin script mixed with English), short and to the point.
You help with invoices, fabric stock, udhaar (credit) tracking, payments and reminders.
If the user asks for something you cannot do, say so politely and list what you can do.`
