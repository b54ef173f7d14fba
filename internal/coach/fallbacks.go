package coach

// Fixed user-facing texts. Classified upstream failures are logged with
// their classification but only ever surface as one of these strings.

const defaultReport = `[Sleep Analysis Report]

[Strengths]
Thanks for using the sleep health assistant! There is no sleep data for this date yet, but caring about your sleep is already a great start.

[Weaknesses]
A detailed analysis needs recorded sleep data. You could:
1. Record nights with a sleep tracker
2. Log bed and wake times by hand
3. Check back once data has been collected

[Advice]
1. Keep a regular sleep schedule with fixed bed and wake times
2. Make the bedroom comfortable: cool, dark and quiet
3. Put screens away an hour before bed; read or listen to calm music instead`

const errorReport = `[Sleep Analysis Report]

[Strengths]
You are actively looking after your sleep health, which is an important step for body and mind.

[Weaknesses]
A detailed AI analysis could not be generated right now, likely due to a network or system issue.

[Advice]
1. Keep a regular schedule and aim for 7-9 hours of sleep
2. Avoid stimulating activity before bed and keep the bedroom calm
3. See a doctor if sleep problems persist

Please try again later.`

const errorChatReply = `Sorry, I cannot reply to your message right now. This is likely a network issue or heavy load.

Please try again in a moment, or:
1. Check your connection
2. Resend the message
3. Contact support if it keeps happening

I will be back as soon as possible.`

const replyUnknownUser = "Sorry, we could not identify you. Please sign in again."

const replyEmptyMessage = "Hi! I'm your sleep health assistant. Ask me anything about your sleep."

const replyHistoryCleared = "Conversation history cleared. We can start fresh."

const helpMessage = `I'm your sleep health assistant. I can help with:

- Sleep data analysis
- Advice for better sleep
- Bedroom and routine optimization
- Sleep habit coaching
- General sleep questions

Commands:
- "clear" wipes our conversation history
- "stats" shows your conversation statistics
- "help" shows this message

Ask me anything about your sleep!`
